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


/*
Package types holds the type descriptors and configuration shared by the
hiveudf packages.

TypeInfo is the boundary through which a host engine declares argument types
to an aggregate resolver. Only primitive descriptors carry a PrimitiveCategory;
complex ones (list, map, struct, union) are rejected by resolvers that need
primitives:

	t, err := types.ParseTypeName("varchar(32)")
	types.IsStringFamily(t) // true

Config carries the execution settings of the local runner and can be read from
YAML:

	cfg, err := types.LoadConfig("hiveudf.yaml")
	if err != nil {
		return err
	}
*/
package types
