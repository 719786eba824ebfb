package analyze

import "website-audit/internal/models"

// fallbackThreshold triggers category-specific recommendations.
const fallbackThreshold = 70

// fallbackRecommendations is the deterministic rule table used whenever the
// generative provider fails or returns nothing parseable. Categories below
// the threshold contribute fixed entries; the HTTPS entry is always
// appended; generic entries fill the list up to the required count.
func fallbackRecommendations(scores models.CategoryScores) []models.Recommendation {
	var recs []models.Recommendation

	if scores.Performance < fallbackThreshold {
		recs = append(recs,
			models.Recommendation{
				Title:       "Optimize Images",
				Description: "Compress and resize images, and serve them in modern formats such as WebP to reduce page weight.",
				Priority:    models.PriorityHigh,
				Impact:      "Faster load times and better user retention",
			},
			models.Recommendation{
				Title:       "Enable Browser Caching",
				Description: "Set cache headers on static assets so repeat visitors load the page from local storage.",
				Priority:    models.PriorityMedium,
				Impact:      "Reduced server load and faster repeat visits",
			},
		)
	}

	if scores.SEO < fallbackThreshold {
		recs = append(recs,
			models.Recommendation{
				Title:       "Add Meta Descriptions",
				Description: "Write unique meta descriptions for every page so search engines display relevant snippets.",
				Priority:    models.PriorityHigh,
				Impact:      "Higher click-through rates from search results",
			},
			models.Recommendation{
				Title:       "Fix Heading Structure",
				Description: "Use a single H1 per page and nest H2/H3 headings logically for crawlers and readers.",
				Priority:    models.PriorityMedium,
				Impact:      "Better search ranking signals",
			},
		)
	}

	if scores.Accessibility < fallbackThreshold {
		recs = append(recs, models.Recommendation{
			Title:       "Add Image Alt Text",
			Description: "Provide descriptive alt attributes on images so screen readers can convey their content.",
			Priority:    models.PriorityMedium,
			Impact:      "Usable by visitors with assistive technology",
		})
	}

	if scores.Mobile < fallbackThreshold {
		recs = append(recs, models.Recommendation{
			Title:       "Improve Mobile Responsiveness",
			Description: "Use responsive layouts and appropriately sized tap targets so the site works on small screens.",
			Priority:    models.PriorityHigh,
			Impact:      "Better experience for mobile visitors",
		})
	}

	recs = append(recs, httpsRecommendation())

	return recs
}

// httpsRecommendation is appended to every fallback list regardless of
// scores.
func httpsRecommendation() models.Recommendation {
	return models.Recommendation{
		Title:       "Enable HTTPS",
		Description: "Serve the entire site over HTTPS with a valid certificate and redirect all HTTP traffic.",
		Priority:    models.PriorityHigh,
		Impact:      "Visitor trust, data security, and ranking benefit",
	}
}

// genericRecommendations pad short lists without introducing
// category-specific advice the scores did not trigger.
func genericRecommendations() []models.Recommendation {
	return []models.Recommendation{
		{
			Title:       "Monitor Core Web Vitals",
			Description: "Track LCP, CLS, and INP over time so regressions are caught before they affect visitors.",
			Priority:    models.PriorityMedium,
			Impact:      "Early warning on user experience regressions",
		},
		{
			Title:       "Set Up Uptime Monitoring",
			Description: "Add an external uptime check with alerting so outages are detected immediately.",
			Priority:    models.PriorityLow,
			Impact:      "Reduced undetected downtime",
		},
		{
			Title:       "Refresh Content Regularly",
			Description: "Review key landing pages quarterly and update stale copy, dates, and offers.",
			Priority:    models.PriorityLow,
			Impact:      "Sustained relevance for visitors and search engines",
		},
		{
			Title:       "Review Third-Party Scripts",
			Description: "Audit embedded tags and widgets and remove any that no longer earn their load cost.",
			Priority:    models.PriorityMedium,
			Impact:      "Leaner pages and fewer external points of failure",
		},
		{
			Title:       "Add Structured Data",
			Description: "Mark up key pages with schema.org data so search engines can show rich results.",
			Priority:    models.PriorityLow,
			Impact:      "Eligibility for enhanced search listings",
		},
	}
}

// normalizeRecommendations produces the final list of exactly
// recommendationCount entries. Provider output (possibly nil) is cleaned,
// truncated, and padded from the fallback rules, deduplicating by title.
func normalizeRecommendations(provided []models.Recommendation, scores models.CategoryScores) []models.Recommendation {
	out := make([]models.Recommendation, 0, recommendationCount)
	seen := make(map[string]bool)

	appendRec := func(rec models.Recommendation) {
		if len(out) >= recommendationCount || rec.Title == "" || seen[rec.Title] {
			return
		}
		if rec.Priority != models.PriorityHigh && rec.Priority != models.PriorityLow {
			rec.Priority = models.PriorityMedium
		}
		seen[rec.Title] = true
		out = append(out, rec)
	}

	for _, rec := range provided {
		appendRec(rec)
	}
	for _, rec := range fallbackRecommendations(scores) {
		appendRec(rec)
	}
	for _, rec := range genericRecommendations() {
		appendRec(rec)
	}

	return out
}
