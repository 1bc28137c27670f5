package briefing

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/simglobe/simglobe/internal/domain/market"
)

const highRiskProbability = 0.6

var (
	quarterPattern = regexp.MustCompile(`in Q\d \d{4}`)
	willThereBe    = regexp.MustCompile(`Will there be `)
	will           = regexp.MustCompile(`Will `)
)

// Script renders the spoken briefing for the markets at the given time.
func Script(markets []market.Market, now time.Time) string {
	intro := fmt.Sprintf("Good %s. Here's your SimGlobe market briefing for %s.",
		timeOfDay(now), now.Format("Monday, January 2"))

	if len(markets) == 0 {
		return intro + " Currently, there are no significant market events affecting your business. Continue monitoring for updates."
	}

	parts := make([]string, 0, len(markets)+2)
	parts = append(parts, intro)

	high := 0
	for i, m := range markets {
		p := m.Probability()
		if p >= highRiskProbability {
			high++
		}
		parts = append(parts, fmt.Sprintf("Risk %d: %s is currently at %d%% probability. %s",
			i+1, CleanTitle(m.Question()), int(math.Round(p*100)), impactPhrase(ImpactOf(m))))
	}

	switch {
	case high >= 2:
		parts = append(parts, "Multiple high-probability risks detected. Consider reviewing your hedging strategy today.")
	case high == 1:
		parts = append(parts, "One significant risk requires your attention. Visit your dashboard for detailed recommendations.")
	default:
		parts = append(parts, "Market conditions are relatively stable. Visit your dashboard to explore hedging options.")
	}
	return strings.Join(parts, " ")
}

// CleanTitle rewrites a market question into a phrase that reads well aloud.
func CleanTitle(question string) string {
	s := strings.TrimSuffix(question, "?")
	s = replaceFirst(willThereBe, s, "")
	s = replaceFirst(will, s, "")
	return replaceFirst(quarterPattern, s, "soon")
}

// ImpactOf grades a market for the briefing. It only looks at the primary
// conviction/liquidity pairs, so it is stricter than market.ImpactOf.
func ImpactOf(m market.Market) market.Impact {
	p, vol := m.Probability(), m.Volume()
	switch {
	case p >= 0.70 && vol >= 100_000:
		return market.ImpactHigh
	case p >= 0.40 && vol >= 50_000:
		return market.ImpactMedium
	default:
		return market.ImpactLow
	}
}

func impactPhrase(i market.Impact) string {
	switch i {
	case market.ImpactHigh:
		return "This could significantly affect your supply chain and inventory planning."
	case market.ImpactMedium:
		return "Monitor this for potential business impact."
	default:
		return "Low immediate impact expected on your operations."
	}
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
