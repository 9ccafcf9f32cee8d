package chat

import (
	"errors"
	"strings"
)

var errMalformedLine = errors.New("malformed line")

// ircLine is one parsed line of the IRC-over-WebSocket dialect.
//
//	[@tags ][:prefix ]COMMAND [params…] [:trailing]
type ircLine struct {
	Raw      string
	Tags     map[string]string
	Prefix   string
	Command  string
	Params   []string
	Trailing string
}

// Nick returns the nickname part of the prefix ("nick!user@host" → "nick").
func (l ircLine) Nick() string {
	if i := strings.IndexByte(l.Prefix, '!'); i >= 0 {
		return l.Prefix[:i]
	}
	return l.Prefix
}

// parseLine parses one line. Only structure is validated; unknown commands
// pass through.
func parseLine(raw string) (ircLine, error) {
	line := ircLine{Raw: raw}
	rest := raw

	if strings.HasPrefix(rest, "@") {
		i := strings.IndexByte(rest, ' ')
		if i < 0 {
			return line, errMalformedLine
		}
		line.Tags = parseTags(rest[1:i])
		rest = strings.TrimLeft(rest[i+1:], " ")
	}

	if strings.HasPrefix(rest, ":") {
		i := strings.IndexByte(rest, ' ')
		if i < 0 {
			return line, errMalformedLine
		}
		line.Prefix = rest[1:i]
		rest = strings.TrimLeft(rest[i+1:], " ")
	}

	if i := strings.Index(rest, " :"); i >= 0 {
		line.Trailing = rest[i+2:]
		rest = rest[:i]
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return line, errMalformedLine
	}

	line.Command = strings.ToUpper(fields[0])
	line.Params = fields[1:]

	return line, nil
}

func parseTags(s string) map[string]string {
	tags := make(map[string]string)
	for _, kv := range strings.Split(s, ";") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		tags[k] = v
	}
	return tags
}
