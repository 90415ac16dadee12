package rcs

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxPayloadBytes = 250 * 1024

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// fieldPattern captures the leading dotted identifier token of a violation
// description, which doubles as the field path in protocol error details.
var fieldPattern = regexp.MustCompile(`^(\w[\w.]*)`)

// Violation is a single failed structural rule, phrased so that the field
// path leads the description.
type Violation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func newViolation(description string) Violation {
	field := "unknown"
	if m := fieldPattern.FindStringSubmatch(description); m != nil {
		field = m[1]
	}
	return Violation{Field: field, Description: description}
}

// ValidPhone reports whether phone is a well-formed E.164 number.
func ValidPhone(phone string) bool {
	return e164Pattern.MatchString(phone)
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messageChecks is the fixed table of cross-field rules. Each check takes
// the parsed payload and returns zero or more violations; the full table
// always runs so the caller sees every failure at once.
var messageChecks = []func(*AgentMessage) []Violation{
	checkContentKind,
	checkTTLExpireExclusive,
	checkPayloadSize,
	checkSuggestionShape,
	checkRichCard,
}

// ValidateAgentMessage checks every structural rule on the canonical payload
// and returns the collected violations. An empty slice means the payload is
// well-formed.
func ValidateAgentMessage(msg *AgentMessage) []Violation {
	violations := tagViolations(msg)
	for _, check := range messageChecks {
		violations = append(violations, check(msg)...)
	}
	return violations
}

func tagViolations(msg *AgentMessage) []Violation {
	err := structValidator.Struct(msg)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{newViolation("unknown payload structure")}
	}

	violations := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		violations = append(violations, newViolation(describeFieldError(fe)))
	}
	return violations
}

func describeFieldError(fe validator.FieldError) string {
	path := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must not contain more than %s entries", path, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s characters", path, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", path, strings.Join(strings.Fields(fe.Param()), ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}

// fieldPath strips the root struct name from the validator namespace so the
// description starts at the payload field, e.g.
// "richCard.standaloneCard.cardContent.title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func checkContentKind(msg *AgentMessage) []Violation {
	kinds := 0
	if msg.Text != nil {
		kinds++
	}
	if msg.RichCard != nil {
		kinds++
	}
	if msg.ContentInfo != nil {
		kinds++
	}
	if msg.UploadedRbmFile != nil {
		kinds++
	}

	if kinds != 1 {
		return []Violation{newViolation(
			"message must carry exactly one of text, richCard, contentInfo, or uploadedRbmFile")}
	}
	return nil
}

func checkTTLExpireExclusive(msg *AgentMessage) []Violation {
	if msg.TTL != nil && msg.ExpireTime != nil {
		return []Violation{newViolation("ttl and expireTime are mutually exclusive")}
	}
	return nil
}

func checkPayloadSize(msg *AgentMessage) []Violation {
	raw, err := json.Marshal(msg)
	if err != nil {
		return []Violation{newViolation("payload is not serializable")}
	}
	if len(raw) > maxPayloadBytes {
		return []Violation{newViolation("payload must not exceed 250KB when serialized")}
	}
	return nil
}

func checkSuggestionShape(msg *AgentMessage) []Violation {
	var violations []Violation

	violations = append(violations, suggestionViolations("suggestions", msg.Suggestions)...)

	if msg.RichCard != nil {
		if sc := msg.RichCard.StandaloneCard; sc != nil {
			violations = append(violations, suggestionViolations(
				"richCard.standaloneCard.cardContent.suggestions", sc.CardContent.Suggestions)...)
		}
		if cc := msg.RichCard.CarouselCard; cc != nil {
			for i, card := range cc.CardContents {
				violations = append(violations, suggestionViolations(
					fmt.Sprintf("richCard.carouselCard.cardContents[%d].suggestions", i),
					card.Suggestions)...)
			}
		}
	}

	return violations
}

func suggestionViolations(path string, suggestions []Suggestion) []Violation {
	var violations []Violation
	for i, s := range suggestions {
		if (s.Reply == nil) == (s.Action == nil) {
			violations = append(violations, newViolation(fmt.Sprintf(
				"%s[%d] must carry exactly one of reply or action", path, i)))
		}
		if s.Action != nil {
			if n := actionKindCount(s.Action); n > 1 {
				violations = append(violations, newViolation(fmt.Sprintf(
					"%s[%d].action must carry at most one action type", path, i)))
			}
		}
	}
	return violations
}

func actionKindCount(a *SuggestedAction) int {
	n := 0
	if a.DialAction != nil {
		n++
	}
	if a.ViewLocationAction != nil {
		n++
	}
	if a.CreateCalendarEventAction != nil {
		n++
	}
	if a.OpenURLAction != nil {
		n++
	}
	if a.ShareLocationAction != nil {
		n++
	}
	return n
}

func checkRichCard(msg *AgentMessage) []Violation {
	if msg.RichCard == nil {
		return nil
	}

	var violations []Violation

	if sc := msg.RichCard.StandaloneCard; sc != nil {
		if sc.CardOrientation == CardOrientationHorizontal && sc.CardContent.Media == nil {
			violations = append(violations, newViolation(
				"richCard.standaloneCard.cardContent.media is required for horizontal cards"))
		}
		violations = append(violations, cardContentViolations(
			"richCard.standaloneCard.cardContent", sc.CardContent)...)
	}

	if cc := msg.RichCard.CarouselCard; cc != nil {
		if len(cc.CardContents) < 2 || len(cc.CardContents) > 10 {
			violations = append(violations, newViolation(
				"richCard.carouselCard.cardContents must contain between 2 and 10 cards"))
		}

		total := 0
		for i, card := range cc.CardContents {
			total += len(card.Suggestions)
			violations = append(violations, cardContentViolations(
				fmt.Sprintf("richCard.carouselCard.cardContents[%d]", i), card)...)
		}
		if total > 11 {
			violations = append(violations, newViolation(
				"richCard.carouselCard.cardContents must not carry more than 11 suggestions in total"))
		}
	}

	return violations
}

func cardContentViolations(path string, card CardContent) []Violation {
	if card.Title == nil && card.Description == nil && card.Media == nil {
		return []Violation{newViolation(fmt.Sprintf(
			"%s requires at least one of title, description, or media", path))}
	}
	return nil
}
