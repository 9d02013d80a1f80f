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


package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rulego/hiveudf/functions"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify CODE...",
		Short: "Print the market segment of each stock code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, functions.Classify(code))
			}
			return nil
		},
	}
}
