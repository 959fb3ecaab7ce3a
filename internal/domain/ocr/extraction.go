package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/tunerp/backend/internal/domain/finance"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Recognizer turns a document image into raw text
type Recognizer interface {
	// RecognizeURL reads the image at a public URL
	RecognizeURL(ctx context.Context, imageURL string) (string, error)
	// RecognizeBase64 reads an inline image
	RecognizeBase64(ctx context.Context, data, mimeType string) (string, error)
}

// DefaultDescription is used when no description line is found
const DefaultDescription = "Charge (OCR)"

const maxDescriptionLength = 100

// ChargeSuggestion holds the charge fields guessed from an OCR text.
// Nil pointers mean the field was not found.
type ChargeSuggestion struct {
	Description string
	Amount      *decimal.Decimal
	AmountHT    *decimal.Decimal
	TVA         *int
	Date        string
	Source      string
	Type        finance.ChargeType
}

// Analysis is the OCR result returned to the client
type Analysis struct {
	RawText    string
	Suggestion ChargeSuggestion
}

var (
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:total\s*ttc|montant\s*ttc|net\s*a\s*payer|total\s*general|total\s*facture)[:\s]*([0-9]+[.,][0-9]+)`),
		regexp.MustCompile(`(?i)(?:total|montant)[:\s]*([0-9]+[.,][0-9]+)`),
		regexp.MustCompile(`(?i)([0-9]+[.,][0-9]{3})\s*(?:tnd|dt)\b`),
	}
	amountHTPattern   = regexp.MustCompile(`(?i)(?:total\s*ht|montant\s*ht|base\s*ht)[:\s]*([0-9]+[.,][0-9]+)`)
	anyAmountPattern  = regexp.MustCompile(`\b([0-9]+[.,][0-9]{2,3})\b`)
	tvaPattern        = regexp.MustCompile(`(?i)tva\s*(?:a|au|de)?\s*([0-9]+)\s*%`)
	tva19Pattern      = regexp.MustCompile(`\b19\s*%`)
	tva7Pattern       = regexp.MustCompile(`\b7\s*%`)
	datePatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)date[:\s]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
		regexp.MustCompile(`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{4})`),
	}
	dateSeparator      = regexp.MustCompile(`[/\-.]`)
	sourcePattern      = regexp.MustCompile(`(?i)(?:facture\s*n[°o]?|invoice\s*#?|bon\s*n[°o]?)[:\s]*([A-Z0-9\-/]+)`)
	descriptionPattern = regexp.MustCompile(`(?i)(?:objet|d[ée]signation|description|libell[ée])[:\s]*(.+)`)
)

var typeKeywords = []struct {
	typ      finance.ChargeType
	keywords *regexp.Regexp
}{
	{finance.ChargeTypeRent, regexp.MustCompile(`loyer|location|bail`)},
	{finance.ChargeTypeSalary, regexp.MustCompile(`salaire|paie|remuneration`)},
	{finance.ChargeTypeUtilities, regexp.MustCompile(`electricite|eau|gaz|telephone|internet|sonede|steg`)},
	{finance.ChargeTypeEquipment, regexp.MustCompile(`equipement|materiel|mobilier|informatique`)},
	{finance.ChargeTypeMarketing, regexp.MustCompile(`publicite|marketing|communication`)},
	{finance.ChargeTypeInsurance, regexp.MustCompile(`assurance`)},
	{finance.ChargeTypeTax, regexp.MustCompile(`taxe|impot|tva|patente`)},
}

// Fold lowercases s and strips diacritics so that "Électricité" matches "electricite"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ExtractCharge guesses charge fields from raw OCR text
func ExtractCharge(text string) Analysis {
	folded := Fold(text)
	s := ChargeSuggestion{
		Amount:   extractAmount(folded),
		AmountHT: firstAmount(amountHTPattern, folded),
		TVA:      extractTVA(folded),
		Date:     extractDate(text),
		Source:   extractSource(text),
		Type:     Classify(folded),
	}
	s.Description = extractDescription(text)
	if s.Description == "" {
		s.Description = DefaultDescription
	}
	return Analysis{RawText: text, Suggestion: s}
}

// Classify returns the charge type whose keywords appear first in priority order
func Classify(text string) finance.ChargeType {
	folded := Fold(text)
	for _, tk := range typeKeywords {
		if tk.keywords.MatchString(folded) {
			return tk.typ
		}
	}
	return finance.ChargeTypeOther
}

func extractAmount(folded string) *decimal.Decimal {
	for _, p := range amountPatterns {
		if amount := firstAmount(p, folded); amount != nil {
			return amount
		}
	}

	var largest *decimal.Decimal
	for _, m := range anyAmountPattern.FindAllStringSubmatch(folded, -1) {
		v, ok := parseAmount(m[1])
		if ok && (largest == nil || v.GreaterThan(*largest)) {
			largest = &v
		}
	}
	return largest
}

func firstAmount(p *regexp.Regexp, text string) *decimal.Decimal {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, ok := parseAmount(m[1])
	if !ok {
		return nil
	}
	return &v
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func extractTVA(folded string) *int {
	var rate int
	switch {
	case tvaPattern.MatchString(folded):
		rate, _ = strconv.Atoi(tvaPattern.FindStringSubmatch(folded)[1])
	case tva19Pattern.MatchString(folded):
		rate = 19
	case tva7Pattern.MatchString(folded):
		rate = 7
	default:
		return nil
	}
	return &rate
}

func extractDate(text string) string {
	for _, p := range datePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		parts := dateSeparator.Split(m[1], -1)
		if len(parts) == 3 && len(parts[2]) == 4 {
			return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
		}
		return m[1]
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func extractSource(text string) string {
	m := sourcePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractDescription(text string) string {
	lines := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	if m := descriptionPattern.FindStringSubmatch(text); m != nil {
		return truncate(strings.TrimSpace(m[1]))
	}
	for _, l := range lines {
		if len([]rune(l)) > 10 && !unicode.IsDigit([]rune(l)[0]) {
			return truncate(l)
		}
	}
	if len(lines) > 0 {
		return truncate(lines[0])
	}
	return ""
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxDescriptionLength {
		return string(r[:maxDescriptionLength])
	}
	return s
}
