/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// InvalidElementError reports that an exporter was handed an element variant
// it does not handle. This is a model/codec mismatch (a programming error),
// so exporters abort rather than degrade.
type InvalidElementError struct {
	Type Type
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("invalid element type %q", string(e.Type))
}
