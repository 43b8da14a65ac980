// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for the admin whitelist,
// news articles, and tasks. Each store struct wraps a *sql.DB and exposes
// typed query methods.
package store

import (
	"fmt"
	"strings"
)

// setBuilder accumulates "column = $n" assignments for partial updates.
type setBuilder struct {
	cols []string
	args []any
}

// add appends an assignment.
func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.cols = append(b.cols, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// empty reports whether no column was set.
func (b *setBuilder) empty() bool {
	return len(b.cols) == 0
}

// build renders "UPDATE table SET ... WHERE id = $n" with id as the last arg.
func (b *setBuilder) build(table string, id any) (string, []any) {
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(b.cols, ", "), len(args))
	return query, args
}
