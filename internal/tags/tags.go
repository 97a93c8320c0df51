// package tags infers ensemble-size tags (solo, duet, ..., decet) from free-text song titles and comments.
package tags

import (
	"regexp"
	"sort"
	"strings"
)

// Separator joins tags in the string form stored alongside a song.
const Separator = ", "

// ensembles maps performer count to its canonical tag, in ascending order.
var ensembles = []string{
	1:  "solo",
	2:  "duet",
	3:  "trio",
	4:  "quartet",
	5:  "quintet",
	6:  "sextet",
	7:  "septet",
	8:  "octet",
	9:  "nonet",
	10: "decet",
}

// synonym maps a spelling seen in the wild to the canonical tag it implies.
// The synonym itself is never emitted.
type synonym struct {
	match string
	tag   string
}

// synonyms are applied in order after the canonical pass.
var synonyms = []synonym{
	{match: "duo", tag: "duet"},
	{match: "octect", tag: "octet"},
	{match: "dectet", tag: "decet"},
}

// trackMarker matches track listings like "T1", "T12" in a comment.
var trackMarker = regexp.MustCompile(`T\d+`)

// Canonical returns the tag for an ensemble of n performers.
func Canonical(n int) (string, bool) {
	if n < 1 || n >= len(ensembles) {
		return "", false
	}
	return ensembles[n], true
}

// Classify returns the sorted, [Separator]-joined ensemble tags found in title and comment.
//
// Canonical names and known synonyms are matched as plain substrings of the lower-cased text.
// When nothing matches, the number of track markers in comment (repeats included) picks the tag.
func Classify(title, comment string) string {
	text := strings.ToLower(title) + " " + strings.ToLower(comment)
	found := make(map[string]struct{})

	for _, tag := range ensembles[1:] {
		if strings.Contains(text, tag) {
			found[tag] = struct{}{}
		}
	}

	for _, s := range synonyms {
		if strings.Contains(text, s.match) {
			found[s.tag] = struct{}{}
		}
	}

	if len(found) == 0 && comment != "" {
		if tag, ok := Canonical(len(trackMarker.FindAllString(comment, -1))); ok {
			found[tag] = struct{}{}
		}
	}

	result := make([]string, 0, len(found))
	for tag := range found {
		result = append(result, tag)
	}
	sort.Strings(result)

	return strings.Join(result, Separator)
}

// Split parses a joined tag string back into its tags. An empty string yields no tags.
func Split(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, Separator)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
