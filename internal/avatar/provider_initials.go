package avatar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"avatard/internal/models"
)

const initialsSVGTemplate = `<svg width="120" height="120" xmlns="http://www.w3.org/2000/svg"><circle cx="60" cy="60" r="60" fill="rgb(%d,%d,%d)"/><text x="60" y="75" font-family="Arial, sans-serif" font-size="40" font-weight="bold" text-anchor="middle" fill="%s">%s</text></svg>`

// InitialsProvider renders a local SVG avatar from the user's initials.
// Pure computation, no I/O, never fails. It terminates every fallback chain.
type InitialsProvider struct{}

func NewInitialsProvider() *InitialsProvider { return &InitialsProvider{} }

func (p *InitialsProvider) Source() models.Source { return models.SourceInitials }

func (p *InitialsProvider) Timeout() time.Duration { return 0 }

func (p *InitialsProvider) Fetch(_ context.Context, req FetchRequest) (*models.ImagePayload, error) {
	initials := deriveInitials(req.DisplayName, req.Identity)
	r, g, b := identityColor(req.Identity)

	// Perceived brightness decides the text color for contrast.
	brightness := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	textColor := "#000000"
	if brightness < 128 {
		textColor = "#ffffff"
	}

	svg := fmt.Sprintf(initialsSVGTemplate, r, g, b, textColor, initials)

	return &models.ImagePayload{
		Bytes:       []byte(svg),
		ContentType: "image/svg+xml",
		OriginURL:   "initials://" + initials,
	}, nil
}

// deriveInitials takes the first letter of the first word and, when a second
// word exists, its first letter; otherwise the second letter of the first
// word. Falls back to the identity when no display name is given.
func deriveInitials(displayName, identity string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = strings.TrimSpace(identity)
	}
	if name == "" {
		return "?"
	}

	words := strings.Fields(name)
	first := []rune(words[0])

	initials := []rune{unicode.ToUpper(first[0])}
	if len(words) > 1 {
		second := []rune(words[1])
		initials = append(initials, unicode.ToUpper(second[0]))
	} else if len(first) > 1 {
		initials = append(initials, unicode.ToUpper(first[1]))
	}
	return string(initials)
}

// identityColor maps an identity to a stable RGB background: the first six
// hex nibbles of its digest.
func identityColor(identity string) (r, g, b int) {
	sum := sha256.Sum256([]byte(identity))
	digest := hex.EncodeToString(sum[:])

	rv, _ := hexByte(digest[0:2])
	gv, _ := hexByte(digest[2:4])
	bv, _ := hexByte(digest[4:6])
	return rv, gv, bv
}

func hexByte(s string) (int, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 1 {
		return 0, err
	}
	return int(raw[0]), nil
}
