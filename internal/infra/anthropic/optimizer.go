package anthropic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Layout bounds for generated scenes: graphics live in the right zone of the
// frame, so oversized coordinates and shapes push elements off screen or into
// the text column.
const (
	maxHorizontalOffset = 1.8
	maxVerticalOffset   = 2.0
	maxSideLength       = 1.6
	maxRadius           = 1.3
	arrangeBuff         = 0.4
)

var (
	horizontalCoordPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\*\s*(RIGHT|LEFT)`)
	verticalCoordPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\*\s*(UP|DOWN)`)
	sideLengthPattern      = regexp.MustCompile(`side_length\s*=\s*(\d+(?:\.\d+)?)`)
	radiusPattern          = regexp.MustCompile(`radius\s*=\s*(\d+(?:\.\d+)?)`)
	bareArrangePattern     = regexp.MustCompile(`\.arrange\(\s*(DOWN|UP|LEFT|RIGHT)\s*\)`)
)

// optimizeScript applies the deterministic layout-quality pass to a validated
// script: coordinate offsets and shape sizes are clamped to the safe zone and
// bare arrange() calls get an explicit buffer so elements cannot overlap.
// The script's logic is never altered, only its layout parameters.
func optimizeScript(script string) string {
	script = clampPattern(script, horizontalCoordPattern, maxHorizontalOffset, func(v float64, m []string) string {
		return formatFloat(v) + "*" + m[2]
	})
	script = clampPattern(script, verticalCoordPattern, maxVerticalOffset, func(v float64, m []string) string {
		return formatFloat(v) + "*" + m[2]
	})
	script = clampPattern(script, sideLengthPattern, maxSideLength, func(v float64, _ []string) string {
		return "side_length=" + formatFloat(v)
	})
	script = clampPattern(script, radiusPattern, maxRadius, func(v float64, _ []string) string {
		return "radius=" + formatFloat(v)
	})
	script = bareArrangePattern.ReplaceAllString(script,
		fmt.Sprintf(".arrange($1, buff=%.1f)", arrangeBuff))
	return script
}

// clampPattern rewrites every match whose captured number exceeds max.
func clampPattern(script string, pattern *regexp.Regexp, max float64, rebuild func(v float64, match []string) string) string {
	return pattern.ReplaceAllStringFunc(script, func(s string) string {
		m := pattern.FindStringSubmatch(s)
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= max {
			return s
		}
		return rebuild(max, m)
	})
}

// Issue thresholds are tighter than the clamps: a script can pass the clamp
// yet still sit close enough to the frame edge to be worth flagging.
const (
	flagHorizontalOffset = 1.5
	flagSideLength       = 1.2
)

// scriptQualityIssues reports layout problems remaining after the quality
// pass, for logging only; an imperfect script still renders.
func scriptQualityIssues(script string) []string {
	var issues []string

	for _, m := range horizontalCoordPattern.FindAllStringSubmatch(script, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > flagHorizontalOffset {
			issues = append(issues, fmt.Sprintf("horizontal offset %s near frame edge", m[1]))
		}
	}
	for _, m := range sideLengthPattern.FindAllStringSubmatch(script, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > flagSideLength {
			issues = append(issues, fmt.Sprintf("side_length %s crowds the layout", m[1]))
		}
	}
	if strings.Contains(script, ".arrange(") && !strings.Contains(script, "buff=") {
		issues = append(issues, "arrange without explicit spacing")
	}
	return issues
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
