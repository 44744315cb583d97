package collection

import (
	"fmt"
	"strings"
)

// Finish is the physical print variant of an owned copy.
type Finish int

const (
	FinishNonFoil Finish = iota
	FinishFoil
	FinishEtched
)

// Special is a collector designation orthogonal to the finish.
type Special int

const (
	SpecialNone Special = iota
	SpecialSigned
	SpecialArtistProof
	SpecialAltered
)

var finishNames = map[Finish]string{
	FinishNonFoil: "non-foil",
	FinishFoil:    "foil",
	FinishEtched:  "etched",
}

var specialNames = map[Special]string{
	SpecialNone:        "none",
	SpecialSigned:      "signed",
	SpecialArtistProof: "artist-proof",
	SpecialAltered:     "altered",
}

func (f Finish) String() string {
	if name, ok := finishNames[f]; ok {
		return name
	}
	return fmt.Sprintf("finish(%d)", int(f))
}

func (s Special) String() string {
	if name, ok := specialNames[s]; ok {
		return name
	}
	return fmt.Sprintf("special(%d)", int(s))
}

// ParseFinish accepts both the display names and the Scryfall spellings.
func ParseFinish(raw string) (Finish, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "non-foil", "nonfoil", "normal", "":
		return FinishNonFoil, nil
	case "foil":
		return FinishFoil, nil
	case "etched", "etched-foil":
		return FinishEtched, nil
	default:
		return FinishNonFoil, fmt.Errorf("unknown finish %q", raw)
	}
}

func ParseSpecial(raw string) (Special, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "":
		return SpecialNone, nil
	case "signed":
		return SpecialSigned, nil
	case "artist-proof", "artistproof":
		return SpecialArtistProof, nil
	case "altered":
		return SpecialAltered, nil
	default:
		return SpecialNone, fmt.Errorf("unknown special %q", raw)
	}
}

// Finishes is the set of finishes a printing was produced in.
type Finishes []Finish

// FinishesFromMetadata derives the available finishes from catalog metadata.
// Unknown spellings are skipped; a card without usable metadata is non-foil only.
func FinishesFromMetadata(raw []string) Finishes {
	seen := make(map[Finish]bool, len(raw))
	out := make(Finishes, 0, len(raw))
	for _, name := range raw {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseFinish(name)
		if err != nil || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return Finishes{FinishNonFoil}
	}
	return out
}

func (fs Finishes) Contains(f Finish) bool {
	for _, have := range fs {
		if have == f {
			return true
		}
	}
	return false
}

// Default is the finish a fresh entry starts with.
func (fs Finishes) Default() Finish {
	if len(fs) == 0 || fs.Contains(FinishNonFoil) {
		return FinishNonFoil
	}
	return fs[0]
}

// Update is the submission payload produced by a confirmed entry.
type Update struct {
	CardID  string
	Count   int
	Finish  Finish
	Special Special
}

func (u Update) String() string {
	sign := "+"
	if u.Count < 0 {
		sign = ""
	}
	label := u.Finish.String()
	if u.Special != SpecialNone {
		label += " " + u.Special.String()
	}
	return fmt.Sprintf("%s%d %s", sign, u.Count, label)
}
