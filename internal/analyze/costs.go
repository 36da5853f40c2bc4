package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numericRe = regexp.MustCompile(`[\d,]+`)

	deliveryFeePatterns = []*regexp.Regexp{
		regexp.MustCompile(`delivery\s*(?:charge|fee|cost)[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`shipping\s*(?:charge|fee|cost)[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`₹\s*([\d,]+)\s*(?:delivery|shipping)`),
	}
	installFeePatterns = []*regexp.Regexp{
		regexp.MustCompile(`installation\s*(?:charge|fee|cost)[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`₹\s*([\d,]+)\s*installation`),
	}
	convenienceFeePatterns = []*regexp.Regexp{
		regexp.MustCompile(`convenience\s*fee[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`platform\s*fee[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`service\s*fee[:\s]*₹?\s*([\d,]+)`),
		regexp.MustCompile(`handling\s*(?:charge|fee)[:\s]*₹?\s*([\d,]+)`),
	}
	packagingFeePattern = regexp.MustCompile(`packaging\s*(?:charge|fee)[:\s]*₹?\s*([\d,]+)`)
	codFeePattern       = regexp.MustCompile(`cod\s*(?:charge|fee)[:\s]*₹?\s*([\d,]+)`)
)

// parseAmount turns a captured "1,299" style figure into a float. Returns
// 0 when the capture is unusable.
func parseAmount(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// basePriceValue pulls the numeric portion out of a raw price string such
// as "₹1,29,990".
func basePriceValue(price *Price) float64 {
	if price == nil {
		return 0
	}
	m := numericRe.FindString(price.Raw)
	if m == "" {
		return 0
	}
	return parseAmount(m)
}

func firstAmount(lower string, patterns []*regexp.Regexp) (float64, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return parseAmount(m[1]), true
		}
	}
	return 0, false
}

func analyzeHiddenCosts(text string, price *Price) HiddenCosts {
	lower := strings.ToLower(text)
	hc := HiddenCosts{}
	score := 100
	base := basePriceValue(price)
	total := 0.0

	// Delivery.
	if containsAny(lower, "free delivery", "free shipping", "no delivery charge") {
		hc.DeliveryCharge = floatPtr(0)
		hc.Warnings = append(hc.Warnings, "Free delivery")
	} else if fee, ok := firstAmount(lower, deliveryFeePatterns); ok {
		hc.DeliveryCharge = floatPtr(fee)
		total += fee
		score -= 10
		hc.Warnings = append(hc.Warnings, fmt.Sprintf("Delivery charge: ₹%.0f", fee))
	} else if containsAny(lower, "delivery", "shipping") {
		score -= 5
		hc.Warnings = append(hc.Warnings, "Delivery charges may apply (not clearly stated)")
	}

	// Installation.
	if containsAny(lower, "free installation", "installation included", "no installation charge") {
		hc.InstallationFee = floatPtr(0)
		hc.Warnings = append(hc.Warnings, "Free installation")
	} else if fee, ok := firstAmount(lower, installFeePatterns); ok {
		hc.InstallationFee = floatPtr(fee)
		total += fee
		score -= 15
		hc.Warnings = append(hc.Warnings, fmt.Sprintf("Installation fee: ₹%.0f", fee))
	}

	// Convenience, platform and handling fees.
	if fee, ok := firstAmount(lower, convenienceFeePatterns); ok {
		hc.ConvenienceFee = floatPtr(fee)
		total += fee
		score -= 10
		hc.Warnings = append(hc.Warnings, fmt.Sprintf("Convenience/platform fee: ₹%.0f", fee))
	}

	// GST.
	switch {
	case containsAny(lower, "inclusive of all taxes", "inclusive of gst", "including tax", "tax included"):
		hc.GSTIncluded = boolPtr(true)
		hc.Warnings = append(hc.Warnings, "GST included in price")
	case containsAny(lower, "exclusive of tax", "excluding gst", "plus gst", "+ gst", "taxes extra"):
		hc.GSTIncluded = boolPtr(false)
		score -= 20
		if base > 0 {
			gst := 0.18 * base
			total += gst
			hc.Warnings = append(hc.Warnings, fmt.Sprintf("GST not included: approx ₹%.0f extra (18%%)", gst))
		} else {
			hc.Warnings = append(hc.Warnings, "GST not included (typically 18% extra)")
		}
	}

	// Packaging fees can be itemized more than once.
	for _, m := range packagingFeePattern.FindAllStringSubmatch(lower, -1) {
		fee := parseAmount(m[1])
		hc.OtherFees = append(hc.OtherFees, NamedFee{Name: "packaging", Amount: fee})
		total += fee
		score -= 5
		hc.Warnings = append(hc.Warnings, fmt.Sprintf("Packaging charge: ₹%.0f", fee))
	}

	// Cash on delivery. Avoidable by paying prepaid, so the fee is recorded
	// but kept out of the hidden-cost total.
	if containsAny(lower, "cod charge", "cash on delivery charge", "cod fee") {
		if m := codFeePattern.FindStringSubmatch(lower); m != nil {
			fee := parseAmount(m[1])
			hc.OtherFees = append(hc.OtherFees, NamedFee{Name: "cod", Amount: fee})
			score -= 5
			hc.Warnings = append(hc.Warnings, fmt.Sprintf("COD charge: ₹%.0f", fee))
		} else {
			score -= 3
			hc.Warnings = append(hc.Warnings, "COD charges may apply")
		}
	}

	hc.TotalHiddenCost = total
	if base > 0 && total > 0 {
		pct := total / base * 100
		hc.Warnings = append(hc.Warnings,
			fmt.Sprintf("Total hidden costs: ₹%.0f (%.1f%% of base price)", total, pct),
			fmt.Sprintf("Final payable: approx ₹%.0f", base+total))
		if pct > 20 {
			score -= 20
			hc.Warnings = append(hc.Warnings, "HIGH hidden costs (>20% of base price)")
		} else if pct > 10 {
			score -= 10
			hc.Warnings = append(hc.Warnings, "Significant hidden costs (>10% of base price)")
		}
	}

	hc.TransparencyScore = clampScore(score)
	if len(hc.Warnings) == 0 {
		hc.Warnings = append(hc.Warnings, "No hidden cost signals detected")
	}
	return hc
}
