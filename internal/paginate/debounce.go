/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paginate

import (
	"sync"
	"time"
)

// DefaultDebounce is how long a burst of repagination requests settles before
// the last one runs.
const DefaultDebounce = 200 * time.Millisecond

// Scheduler coalesces bursts of repagination requests: each Schedule call
// replaces the pending timer, so only the last request in a burst executes.
// The function should re-read the current document state when it runs, not
// capture it at schedule time.
type Scheduler struct {
	Delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewScheduler returns a scheduler with the default settle delay.
func NewScheduler() *Scheduler {
	return &Scheduler{Delay: DefaultDebounce}
}

// Schedule runs fn after the settle delay, discarding any pending run.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s.timer = time.AfterFunc(delay, fn)
}

// Stop cancels a pending run, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
