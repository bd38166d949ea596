package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one record written by slog's text handler.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Attr is a key=value pair following the message.
type Attr struct {
	Key   string
	Value string
}

// Parse splits a slog text line such as
//
//	time=2025-06-02T10:00:00.000+02:00 level=INFO msg="item created" id=7
//
// into an Entry. Lines that do not carry a level are returned with only Raw
// and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	for _, pair := range splitPairs(line) {
		switch pair.Key {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, pair.Value); err == nil {
				entry.Time = t
			}
		case "level":
			entry.Level = strings.ToUpper(pair.Value)
		case "msg":
			entry.Message = pair.Value
		default:
			entry.Attrs = append(entry.Attrs, pair)
		}
	}
	if entry.Level == "" {
		entry.Message = line
		entry.Attrs = nil
	}
	return entry
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}

// splitPairs tokenizes key=value pairs. Quoted values use Go string syntax,
// as slog writes them.
func splitPairs(line string) []Attr {
	var pairs []Attr
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			break
		}
		key := line[i : i+eq]
		if strings.ContainsRune(key, ' ') {
			break
		}
		i += eq + 1

		var value string
		if i < len(line) && line[i] == '"' {
			end := i + 1
			for end < len(line) && line[end] != '"' {
				if line[end] == '\\' {
					end++
				}
				end++
			}
			end = min(end+1, len(line))
			quoted := line[i:end]
			if v, err := strconv.Unquote(quoted); err == nil {
				value = v
			} else {
				value = strings.Trim(quoted, `"`)
			}
			i = end
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			value = line[i : i+end]
			i += end
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
	}
	return pairs
}
