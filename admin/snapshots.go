// MIT License
//
// Copyright (c) 2025-2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package admin

// EntrySnapshot describes one cached namespace interface entry as exposed by
// the /entries diagnostic endpoint.
type EntrySnapshot struct {
	Worker   int    `json:"worker"`
	Table    string `json:"table"`
	RefCount int    `json:"ref_count"`
	Ready    bool   `json:"ready"`
	Err      string `json:"error,omitempty"`
}

// ProjectionSnapshot describes one table's primary projection as exposed by
// the /projection diagnostic endpoint.
type ProjectionSnapshot struct {
	Table   string   `json:"table"`
	Regions int      `json:"regions"`
	Primaries []string `json:"primaries"`
}
