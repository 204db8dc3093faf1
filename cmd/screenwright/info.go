/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"screenwright/internal/paginate"
	"screenwright/internal/script"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a screenplay file",
	Long: `Info reads the file, reports element and scene counts, and estimates the
page count from the standard print layout. PDF inputs additionally report the
source page count.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := sniffFormat(path)
		if err != nil {
			return err
		}
		if f == formatPDF {
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			pages, perr := api.PageCount(file, nil)
			_ = file.Close()
			if perr != nil {
				return fmt.Errorf("pdf preflight: %w", perr)
			}
			fmt.Printf("Source pages:    %d\n", pages)
		}

		s, err := readScript(cmd.Context(), path, cfg)
		if err != nil {
			return err
		}
		if s.Meta.Title != "" {
			fmt.Printf("Title:           %s\n", s.Meta.Title)
		}
		fmt.Printf("Elements:        %d\n", len(s.Elements))
		fmt.Printf("Scenes:          %d\n", script.SceneCount(s.Elements))

		stamps := paginate.Paginate(s.Elements, paginate.CourierMeasurer{})
		last := 0
		for _, p := range stamps {
			if p > last {
				last = p
			}
		}
		fmt.Printf("Estimated pages: %d\n", last)

		counts := script.CountByType(s.Elements)
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-14s %d\n", t, counts[script.Type(t)])
		}
		return nil
	},
}
