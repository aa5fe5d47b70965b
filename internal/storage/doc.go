/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the local revision history.
// It manages the per-screenplay embedded SQLite store at <dir>/.swr/history.sqlite
// holding full-text revisions recorded after successful edits.
// The screenplay file itself stays the single source of truth; the store is
// derived convenience data and is rebuildable/disposable by design.
package storage
