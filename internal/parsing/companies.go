// Package parsing extracts company associations from loaded problem rows.
package parsing

import (
	"sort"
	"strings"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// companySeparator separates company names inside the Companies column
const companySeparator = ","

// SplitCompanies splits a comma-separated company field into trimmed,
// non-empty tokens. Order and duplicates are preserved.
func SplitCompanies(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var companies []string
	for _, token := range strings.Split(field, companySeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		companies = append(companies, token)
	}
	return companies
}

// ExtractCompanies returns the distinct companies referenced by any row,
// sorted lexicographically.
func ExtractCompanies(rows []types.ProblemRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, company := range SplitCompanies(row.Companies) {
			seen[company] = struct{}{}
		}
	}

	companies := make([]string, 0, len(seen))
	for company := range seen {
		companies = append(companies, company)
	}
	sort.Strings(companies)
	return companies
}

// CountAssociations returns the number of (row, company) pairs across rows.
func CountAssociations(rows []types.ProblemRow) int {
	total := 0
	for _, row := range rows {
		total += len(SplitCompanies(row.Companies))
	}
	return total
}
