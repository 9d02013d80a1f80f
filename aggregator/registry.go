/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rulego/hiveudf/types"
)

// NullPolicyResolver is implemented by resolvers whose evaluators can be
// configured with a NULL input policy.
type NullPolicyResolver interface {
	Resolver
	WithNullPolicy(policy types.NullPolicy) Resolver
}

var (
	resolverRegistry = make(map[string]Resolver)
	registryMutex    sync.RWMutex
)

// Register 添加聚合函数解析器到全局注册表
func Register(name string, r Resolver) error {
	if name == "" {
		return fmt.Errorf("aggregate name cannot be empty")
	}
	if r == nil {
		return fmt.Errorf("aggregate %s: nil resolver", name)
	}
	name = strings.ToLower(name)

	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, exists := resolverRegistry[name]; exists {
		return fmt.Errorf("aggregate %s already registered", name)
	}
	resolverRegistry[name] = r
	return nil
}

// Unregister removes an aggregate, reporting whether it existed.
func Unregister(name string) bool {
	name = strings.ToLower(name)
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, exists := resolverRegistry[name]; !exists {
		return false
	}
	delete(resolverRegistry, name)
	return true
}

// GetResolver looks an aggregate up by name, case-insensitively.
func GetResolver(name string) (Resolver, bool) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	r, ok := resolverRegistry[strings.ToLower(name)]
	return r, ok
}

// IsAggregate reports whether name is a registered aggregate.
func IsAggregate(name string) bool {
	_, ok := GetResolver(name)
	return ok
}

// List returns the registered aggregate names in sorted order.
func List() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	names := make([]string, 0, len(resolverRegistry))
	for name := range resolverRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve finds the named aggregate and resolves it for argTypes.
func Resolve(name string, argTypes []types.TypeInfo) (Evaluator, error) {
	r, ok := GetResolver(name)
	if !ok {
		return nil, fmt.Errorf("aggregate function %s not found", name)
	}
	return r.Resolve(argTypes)
}

// ResolveWithPolicy is Resolve with a NULL policy applied when the resolver supports one.
func ResolveWithPolicy(name string, argTypes []types.TypeInfo, policy types.NullPolicy) (Evaluator, error) {
	r, ok := GetResolver(name)
	if !ok {
		return nil, fmt.Errorf("aggregate function %s not found", name)
	}
	if pr, ok := r.(NullPolicyResolver); ok && policy != "" {
		r = pr.WithNullPolicy(policy)
	}
	return r.Resolve(argTypes)
}

func init() {
	_ = Register(StringLengthSumName, NewStringLengthSumResolver(types.NullAsZero))
}
