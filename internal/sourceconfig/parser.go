// Package sourceconfig parses the source "DbLib" configuration file (§4.1):
// an INI-style document pairing a connection descriptor with zero or more
// enabled table definitions.
package sourceconfig

import (
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"dblibmigrate/internal/core"
	"dblibmigrate/internal/migrateerr"
)

// connectionKindMarkers is the ordered, first-match-wins substring table
// from §4.1. Order matters: Access markers are checked before the more
// generic "sqlite" substring so e.g. an OLEDB/Access string is never
// misclassified.
var connectionKindMarkers = []struct {
	substr string
	kind   core.ConnectionKind
}{
	{"microsoft.ace.oledb", core.KindAccess},
	{".mdb", core.KindAccess},
	{".accdb", core.KindAccess},
	{"sql server", core.KindSqlServer},
	{"sqlserver", core.KindSqlServer},
	{"sqlite", core.KindSqlite},
	{"mysql", core.KindMySql},
	{"postgresql", core.KindPostgres},
	{"postgres", core.KindPostgres},
}

// ParseFile reads and parses the DbLib file at path.
func ParseFile(path string) (*core.SourceConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		InsensitiveSections: true,
		AllowShadows:        true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConfigError, err, "reading dblib file %q", path)
	}
	return parse(cfg)
}

// Parse parses DbLib content already held in memory.
func Parse(content []byte) (*core.SourceConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		InsensitiveSections: true,
		AllowShadows:        true,
		IgnoreInlineComment: true,
	}, content)
	if err != nil {
		return nil, migrateerr.Wrap(migrateerr.KindConfigError, err, "parsing dblib content")
	}
	return parse(cfg)
}

func parse(cfg *ini.File) (*core.SourceConfig, error) {
	linksSection := findConnectionSection(cfg)
	if linksSection == nil {
		return nil, migrateerr.New(migrateerr.KindConfigError, "missing DatabaseLinks section")
	}

	connStr := strings.TrimSpace(linksSection.Key("ConnectionString").String())
	if connStr == "" {
		return nil, migrateerr.New(migrateerr.KindConfigError, "empty ConnectionString")
	}

	conn, err := describeConnection(connStr)
	if err != nil {
		return nil, err
	}

	sc := &core.SourceConfig{Connection: conn}
	for _, section := range cfg.Sections() {
		name := section.Name()
		if !strings.HasPrefix(strings.ToLower(name), "table") {
			continue
		}
		sc.Tables = append(sc.Tables, parseTableSection(section))
	}
	return sc, nil
}

// findConnectionSection locates the one section that declares a
// ConnectionString key, commonly (but not necessarily) named
// "DatabaseLinks".
func findConnectionSection(cfg *ini.File) *ini.Section {
	if s, err := cfg.GetSection("DatabaseLinks"); err == nil {
		return s
	}
	for _, s := range cfg.Sections() {
		if s.HasKey("ConnectionString") {
			return s
		}
	}
	return nil
}

func describeConnection(connStr string) (core.ConnectionDescriptor, error) {
	lower := strings.ToLower(connStr)
	kind := core.KindUnknown
	for _, m := range connectionKindMarkers {
		if strings.Contains(lower, m.substr) {
			kind = m.kind
			break
		}
	}

	desc := core.ConnectionDescriptor{Kind: kind, RawConnectionString: connStr}
	if kind == core.KindSqlite {
		path, ok := extractSqlitePath(connStr)
		if !ok {
			return desc, migrateerr.New(migrateerr.KindConfigError, "sqlite connection string missing Database= clause: %q", connStr)
		}
		desc.SqlitePath = path
	}
	return desc, nil
}

// extractSqlitePath pulls the value of a semicolon-delimited, case
// insensitive "Database=" clause out of the connection string.
func extractSqlitePath(connStr string) (string, bool) {
	for _, part := range strings.Split(connStr, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(kv[0]), "database") {
			path := strings.TrimSpace(kv[1])
			if path == "" {
				return "", false
			}
			return path, true
		}
	}
	return "", false
}

func parseTableSection(s *ini.Section) core.TableSpec {
	tableName := s.Key("TableName").String()
	if tableName == "" {
		tableName = s.Name()
	}

	spec := core.TableSpec{
		Name:             core.TableName(tableName),
		Enabled:          isTruthy(s.Key("Enabled").String()),
		KeyField:         s.Key("Key").String(),
		SymbolField:      s.Key("Symbols").String(),
		FootprintField:   s.Key("Footprints").String(),
		DescriptionField: s.Key("Description").String(),
	}

	if s.HasKey("UserWhere") {
		spec.UserWhere = s.Key("UserWhere").String()
	} else if s.HasKey("UserWhereText") {
		spec.UserWhere = s.Key("UserWhereText").String()
	}

	for _, key := range s.Keys() {
		lower := strings.ToLower(key.Name())
		if strings.HasPrefix(lower, "field") && strings.HasSuffix(lower, "name") {
			if v := key.String(); v != "" {
				spec.DeclaredCustomFields = append(spec.DeclaredCustomFields, v)
			}
		}
	}

	return spec
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "1", "true", "yes", "on", "y":
		return true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n != 0
	}
	return false
}
