package steam

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// VDFMap is a parsed VDF key-value structure (nested maps and string values).
type VDFMap map[string]interface{}

// ParseVDF reads Valve Key-Value format from r and returns the root map.
func ParseVDF(r io.Reader) (VDFMap, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanVDFTokens)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vdf: %w", err)
	}
	if len(tokens) == 0 {
		return VDFMap{}, nil
	}

	pos := 0
	root := make(VDFMap)
	for pos < len(tokens) {
		key := tokens[pos]
		pos++
		if pos >= len(tokens) {
			return nil, fmt.Errorf("vdf: unexpected end after key %q", key)
		}
		if tokens[pos] != "{" {
			root[key] = tokens[pos]
			pos++
			continue
		}
		pos++
		inner, err := parseVDFObject(tokens, &pos)
		if err != nil {
			return nil, err
		}
		root[key] = inner
	}
	return root, nil
}

// parseVDFObject parses key-value pairs until "}" and advances pos past it.
func parseVDFObject(tokens []string, pos *int) (VDFMap, error) {
	result := make(VDFMap)
	for *pos < len(tokens) && tokens[*pos] != "}" {
		key := tokens[*pos]
		*pos++
		if *pos >= len(tokens) {
			return nil, fmt.Errorf("vdf: unexpected end after key %q", key)
		}
		if tokens[*pos] == "{" {
			*pos++
			inner, err := parseVDFObject(tokens, pos)
			if err != nil {
				return nil, err
			}
			result[key] = inner
			continue
		}
		result[key] = tokens[*pos]
		*pos++
	}
	if *pos >= len(tokens) {
		return nil, fmt.Errorf("vdf: unclosed block")
	}
	*pos++
	return result, nil
}

// scanVDFTokens splits on quoted strings and the single characters { }.
// Quoted strings are returned unescaped, so Windows paths written as
// "C:\\Program Files (x86)\\Steam" come back with single backslashes.
func scanVDFTokens(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for {
		for start < len(data) && isVDFSpace(data[start]) {
			start++
		}
		// Line comments
		if start+1 >= len(data) || data[start] != '/' || data[start+1] != '/' {
			break
		}
		nl := bytes.IndexByte(data[start:], '\n')
		if nl < 0 {
			if atEOF {
				return len(data), nil, nil
			}
			return 0, nil, nil
		}
		start += nl + 1
	}
	if start >= len(data) {
		if atEOF {
			return start, nil, nil
		}
		return 0, nil, nil
	}
	data = data[start:]

	if data[0] == '"' {
		for i := 1; i < len(data); i++ {
			if data[i] == '\\' && i+1 < len(data) {
				i++
				continue
			}
			if data[i] == '"' {
				return start + i + 1, []byte(unescapeVDF(string(data[1:i]))), nil
			}
		}
		if atEOF {
			return len(data) + start, nil, fmt.Errorf("vdf: unclosed quote")
		}
		return 0, nil, nil
	}
	if data[0] == '{' || data[0] == '}' {
		return start + 1, data[0:1], nil
	}

	i := 0
	for i < len(data) && !unicode.IsSpace(rune(data[i])) && data[i] != '"' && data[i] != '{' && data[i] != '}' {
		i++
	}
	if i < len(data) || atEOF {
		return start + i, data[:i], nil
	}
	return 0, nil, nil
}

func isVDFSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func unescapeVDF(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// libraryPathsFromVDF extracts library paths from a parsed libraryfolders.vdf
// root: libraryfolders -> "0","1",... -> path.
func libraryPathsFromVDF(root VDFMap) []string {
	lf, ok := root["libraryfolders"].(VDFMap)
	if !ok {
		return nil
	}
	var paths []string
	for i := 0; ; i++ {
		entry, ok := lf[fmt.Sprintf("%d", i)].(VDFMap)
		if !ok {
			break
		}
		if p, ok := entry["path"].(string); ok && p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// AppManifest holds parsed fields from an appmanifest_*.acf file.
type AppManifest struct {
	AppID              string
	Name               string
	InstallDir         string
	AutoUpdateBehavior string
}

// ParseAppManifest parses appmanifest_*.acf content.
func ParseAppManifest(data string) (AppManifest, error) {
	root, err := ParseVDF(strings.NewReader(data))
	if err != nil {
		return AppManifest{}, err
	}
	state, ok := root["AppState"].(VDFMap)
	if !ok {
		return AppManifest{}, fmt.Errorf("vdf: missing AppState")
	}

	field := func(key string) string {
		v, _ := state[key].(string)
		return v
	}
	return AppManifest{
		AppID:              field("appid"),
		Name:               field("name"),
		InstallDir:         field("installdir"),
		AutoUpdateBehavior: field(keyAutoUpdateBehavior),
	}, nil
}
