package book

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Kind distinguishes image spreads from video-backed spreads.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	default:
		return "image"
	}
}

// Side names one half of a spread.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// PageRef points at a page owned by the asset provider.
type PageRef struct {
	Number int
}

// Override replaces the image pair (Left, Right) with the named video stream.
type Override struct {
	Left  int
	Right int
	Key   string
}

// Spread is the unit shown at once: a page pair, a solo page, or a video.
type Spread struct {
	Kind     Kind
	Left     *PageRef
	Right    *PageRef
	VideoKey string

	// Replaces holds the page pair a video spread stands in for.
	Replaces [2]int
}

// Page returns the page number on the given side, or 0 when that side is empty.
func (s Spread) Page(side Side) int {
	ref := s.Left
	if side == Right {
		ref = s.Right
	}
	if ref == nil {
		return 0
	}
	return ref.Number
}

// Label is a short human description of the spread contents.
func (s Spread) Label() string {
	switch {
	case s.Kind == KindVideo:
		return fmt.Sprintf("pages %d-%d (video)", s.Replaces[0], s.Replaces[1])
	case s.Left != nil && s.Right != nil:
		return fmt.Sprintf("pages %d-%d", s.Left.Number, s.Right.Number)
	case s.Right != nil:
		return fmt.Sprintf("page %d", s.Right.Number)
	case s.Left != nil:
		return fmt.Sprintf("page %d", s.Left.Number)
	default:
		return "blank"
	}
}

// Book is the immutable spread sequence.
type Book struct {
	totalPages int
	spreads    []Spread
}

// ConfigError reports an unusable page count or override list.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid book configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Build lays out pages 1..totalPages as spreads: page 1 alone on the right,
// then consecutive pairs, with a trailing solo left page when the count is even.
func Build(totalPages int, overrides []Override) (*Book, error) {
	if totalPages < 1 {
		return nil, &ConfigError{Err: fmt.Errorf("total pages must be at least 1, got %d", totalPages)}
	}

	byPair, err := indexOverrides(totalPages, overrides)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	spreads := make([]Spread, 0, SpreadCount(totalPages))
	spreads = append(spreads, Spread{Kind: KindImage, Right: &PageRef{Number: 1}})

	for left := 2; left <= totalPages; left += 2 {
		right := left + 1
		if right > totalPages {
			spreads = append(spreads, Spread{Kind: KindImage, Left: &PageRef{Number: left}})
			break
		}
		if key, ok := byPair[[2]int{left, right}]; ok {
			spreads = append(spreads, Spread{Kind: KindVideo, VideoKey: key, Replaces: [2]int{left, right}})
			continue
		}
		spreads = append(spreads, Spread{
			Kind:  KindImage,
			Left:  &PageRef{Number: left},
			Right: &PageRef{Number: right},
		})
	}

	return &Book{totalPages: totalPages, spreads: spreads}, nil
}

// SpreadCount is ceil((totalPages-1)/2)+1.
func SpreadCount(totalPages int) int {
	if totalPages < 1 {
		return 0
	}
	return totalPages/2 + 1
}

func indexOverrides(totalPages int, overrides []Override) (map[[2]int]string, error) {
	var errs error
	byPair := make(map[[2]int]string, len(overrides))
	for i, o := range overrides {
		key := strings.TrimSpace(o.Key)
		switch {
		case key == "":
			errs = multierr.Append(errs, fmt.Errorf("override %d: video key is empty", i))
			continue
		case o.Right != o.Left+1:
			errs = multierr.Append(errs, fmt.Errorf("override %d (%q): pages %d and %d are not consecutive", i, key, o.Left, o.Right))
			continue
		case o.Left < 2 || o.Left%2 != 0 || o.Right > totalPages:
			errs = multierr.Append(errs, fmt.Errorf("override %d (%q): pages %d-%d are not a spread of a %d page book", i, key, o.Left, o.Right, totalPages))
			continue
		}
		pair := [2]int{o.Left, o.Right}
		if prev, dup := byPair[pair]; dup {
			errs = multierr.Append(errs, fmt.Errorf("override %d (%q): pages %d-%d already mapped to %q", i, key, o.Left, o.Right, prev))
			continue
		}
		byPair[pair] = key
	}
	return byPair, errs
}

// TotalPages returns the configured page count.
func (b *Book) TotalPages() int { return b.totalPages }

// Len returns the number of spreads.
func (b *Book) Len() int { return len(b.spreads) }

// Valid reports whether i indexes a spread.
func (b *Book) Valid(i int) bool { return i >= 0 && i < len(b.spreads) }

// At returns the spread at i.
func (b *Book) At(i int) (Spread, bool) {
	if !b.Valid(i) {
		return Spread{}, false
	}
	return b.spreads[i], true
}

// Spreads returns a copy of the spread sequence.
func (b *Book) Spreads() []Spread {
	out := make([]Spread, len(b.spreads))
	copy(out, b.spreads)
	return out
}

// IndexOfPage returns the spread showing page n, including video spreads that
// replace it.
func (b *Book) IndexOfPage(n int) (int, bool) {
	if n < 1 || n > b.totalPages {
		return 0, false
	}
	return n / 2, true
}

// VideoKeys lists the distinct video streams referenced by the book.
func (b *Book) VideoKeys() []string {
	var keys []string
	for _, s := range b.spreads {
		if s.Kind == KindVideo {
			keys = append(keys, s.VideoKey)
		}
	}
	return keys
}
