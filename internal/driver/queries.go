package driver

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown record kind")

// recordLabels maps a record kind to its node label. Labels cannot be query
// parameters, so only these are ever interpolated.
var recordLabels = map[string]string{
	"lead":    "Lead",
	"contact": "Contact",
	"company": "Company",
}

// Label resolves a record kind ("lead", "Contacts", ...) to its node label.
func Label(kind string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.TrimSuffix(k, "s")
	if k == "companie" {
		k = "company"
	}
	label, ok := recordLabels[k]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return label, nil
}

func loadRecordsQuery(label string) string {
	return fmt.Sprintf(`
		MATCH (n:%s {group_id: $group_id})
		RETURN n.uuid AS id, properties(n) AS props
		ORDER BY id
		LIMIT $limit
	`, label)
}
