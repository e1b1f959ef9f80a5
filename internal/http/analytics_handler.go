package http

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"folio/internal/analytics"
	"folio/internal/events"
	"folio/internal/timeframe"
)

// AnalyticsSummaryAction serves the aggregated dashboard summary for the
// requested symbolic time range (?timeRange=day|week|month|year).
func AnalyticsSummaryAction(ctx *cartridge.Context) error {
	tf := timeframe.Resolve(ctx.Query("timeRange"), time.Now().UTC())

	summary, err := analytics.BuildSummary(ctx.DB(), tf, ctx.Logger)
	if err != nil {
		ctx.Logger.Error("Failed to build analytics summary",
			slog.String("timeRange", string(tf.Label)),
			slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build analytics summary",
		})
	}

	summary.TopLocations = convertCountryStats(summary.TopLocations)

	return ctx.JSON(summary)
}

// convertCountryStats maps ISO country codes onto display names.
func convertCountryStats(items []analytics.MetricCountResult) []analytics.MetricCountResult {
	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	if len(items) == 0 {
		return []analytics.MetricCountResult{}
	}

	result := make([]analytics.MetricCountResult, len(items))
	for i, item := range items {
		if item.Name == events.UnknownCountry {
			result[i] = analytics.MetricCountResult{
				Name:  "Unknown",
				Count: item.Count,
			}
			continue
		}

		country, err := countries.FindCountryByAlpha(item.Name)
		if err != nil {
			result[i] = analytics.MetricCountResult{
				Name:  caser.String(item.Name),
				Count: item.Count,
			}
		} else {
			result[i] = analytics.MetricCountResult{
				Name:  country.Name.Common,
				Count: item.Count,
			}
		}
	}
	return result
}
