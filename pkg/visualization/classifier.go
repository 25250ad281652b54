// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"regexp"
	"time"

	"github.com/teradata-labs/prism/pkg/resultset"
)

// datePatterns pairs a shape check with the layout that must also parse.
// A string is temporal only when both agree; "2024-13" matches the YYYY-MM
// shape but fails the parse and stays categorical.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "2006-01"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "01/02/2006"},
	{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), "2006/01/02"},
}

// Classify infers a semantic kind per column from the first non-null value:
// numeric, temporal (one of the recognized date shapes), or categorical.
// Columns with no non-null values are omitted. The single-sample rule is a
// documented simplification: a column with mixed types classifies by
// whatever appears first.
func Classify(rs *resultset.ResultSet) Classification {
	cls := make(Classification, len(rs.Columns))
	for _, col := range rs.Columns {
		for _, row := range rs.Rows {
			v := row[col]
			if v.IsNull() {
				continue
			}
			cls[col] = classifyValue(v)
			break
		}
	}
	return cls
}

func classifyValue(v resultset.Value) ColumnKind {
	if _, ok := v.Number(); ok {
		return KindNumeric
	}
	if isTemporal(v.String()) {
		return KindTemporal
	}
	return KindCategorical
}

func isTemporal(s string) bool {
	for _, p := range datePatterns {
		if !p.re.MatchString(s) {
			continue
		}
		if _, err := time.Parse(p.layout, s); err == nil {
			return true
		}
	}
	return false
}
