package pipeline

import (
	"fmt"
	"strings"

	"orcafacil/internal"
	"orcafacil/internal/util"
)

// Quantities at or above this are assumed to be in the target unit already.
const conversionThreshold = 20

var DefaultConversionRules = []internal.ConversionRule{
	{
		Triggers:    []string{"rolo", "rolos"},
		Products:    []string{"cabo", "fio", "flex", "cordão", "cordao"},
		Multiplier:  100,
		ResultUnit:  "metros",
		Description: "1 rolo = 100 metros",
	},
	{
		Triggers:    []string{"caixa", "cx", "caixas"},
		Products:    []string{"parafuso", "bucha", "prego"},
		Multiplier:  100,
		ResultUnit:  "unidades",
		Description: "1 caixa = 100 unidades (padrão)",
	},
}

type ConversionEngine struct {
	rules []internal.ConversionRule
}

func NewConversionEngine(rules []internal.ConversionRule) *ConversionEngine {
	if rules == nil {
		rules = DefaultConversionRules
	}
	return &ConversionEngine{rules: rules}
}

// Apply converts packaging units ("1 rolo de cabo") into the selling unit.
// Only the first rule whose trigger and product words both occur in text is
// considered.
func (e *ConversionEngine) Apply(text string, qty float64) (float64, *string) {
	lower := strings.ToLower(text)
	for _, rule := range e.rules {
		if !containsAny(lower, rule.Triggers) || !containsAny(lower, rule.Products) {
			continue
		}
		if qty >= conversionThreshold {
			return qty, nil
		}
		converted := qty * rule.Multiplier
		note := fmt.Sprintf("%s %s = %s%s", util.FormatQty(qty), rule.Triggers[0], util.FormatQty(converted), unitSuffix(rule.ResultUnit))
		return converted, &note
	}
	return qty, nil
}

// PromptInstructions describes the rule table for the remote matcher.
func (e *ConversionEngine) PromptInstructions() string {
	var b strings.Builder
	b.WriteString("Unit conversion rules (strict):\n")
	for _, rule := range e.rules {
		fmt.Fprintf(&b, "- IF the request contains \"%s\" AND the product matches \"%s\" THEN multiply quantity by %s. Log this as \"%s\".\n",
			strings.Join(rule.Triggers, `" or "`), strings.Join(rule.Products, `" or "`), util.FormatQty(rule.Multiplier), rule.Description)
	}
	b.WriteString("Examples:\n")
	b.WriteString(`- "1 rolo de cabo 2.5mm" -> quantity: 100, conversionLog: "1 rolo = 100m"` + "\n")
	b.WriteString(`- "2 rolos de fio 4mm" -> quantity: 200, conversionLog: "2 rolos = 200m"` + "\n")
	b.WriteString(`- "100 metros de cabo" -> quantity: 100, conversionLog: null`)
	return b.String()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func unitSuffix(unit string) string {
	if unit == "metros" {
		return "m"
	}
	return "un"
}
