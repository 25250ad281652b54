// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/teradata-labs/prism/pkg/store"
	"github.com/teradata-labs/prism/pkg/translator"
)

// classifyError folds an error into the protocol's error_type taxonomy.
// Message sniffing is deliberate: database drivers expose failure modes only
// through their message text.
func classifyError(err error) string {
	switch {
	case errors.Is(err, translator.ErrQuestionTooShort):
		return "validation_error"
	case errors.Is(err, store.ErrNotSelect):
		return "security_error"
	case errors.Is(err, store.ErrUnknownChart):
		return "validation_error"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return "sql_schema_error"
	case strings.Contains(msg, "syntax"), strings.Contains(msg, "near"):
		return "sql_syntax_error"
	case strings.Contains(msg, "locked"):
		return "database_locked_error"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout_error"
	case strings.Contains(msg, "connection"):
		return "connection_error"
	case strings.Contains(msg, "database"):
		return "database_error"
	default:
		return "general_error"
	}
}

var errorStatus = map[string]int{
	"validation_error":      http.StatusBadRequest,
	"security_error":        http.StatusBadRequest,
	"authentication_error":  http.StatusUnauthorized,
	"authorization_error":   http.StatusForbidden,
	"not_found_error":       http.StatusNotFound,
	"rate_limit_error":      http.StatusTooManyRequests,
	"sql_syntax_error":      http.StatusBadRequest,
	"sql_schema_error":      http.StatusBadRequest,
	"sql_error":             http.StatusBadRequest,
	"timeout_error":         http.StatusRequestTimeout,
	"connection_error":      http.StatusServiceUnavailable,
	"database_locked_error": http.StatusServiceUnavailable,
	"database_error":        http.StatusInternalServerError,
	"general_error":         http.StatusInternalServerError,
}

func statusForErrorType(errorType string) int {
	if code, ok := errorStatus[errorType]; ok {
		return code
	}
	return http.StatusInternalServerError
}
