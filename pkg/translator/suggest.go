// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package translator

import "github.com/sahilm/fuzzy"

var suggestedQuestions = []string{
	"Show me total sales this year",
	"Which products sold the most?",
	"Who are our top 10 customers by revenue?",
	"What's the monthly sales trend?",
	"Which product category is most profitable?",
	"Show me customers who haven't ordered recently",
	"What's our average order value?",
	"Which cities have the most customers?",
	"Show me the top selling products in each category",
	"What's our total revenue by month?",
}

// Suggestions returns the canned business questions in a fixed order.
func Suggestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)
	return out
}

// SuggestFor ranks the suggestions against a partial question, best match
// first. An empty partial returns the full list.
func SuggestFor(partial string) []string {
	if partial == "" {
		return Suggestions()
	}
	matches := fuzzy.Find(partial, suggestedQuestions)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, suggestedQuestions[m.Index])
	}
	return out
}
