package chart

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anglvix/spotify-insight/internal/track"
)

// Palette matching the dark dashboard theme.
var (
	barColor    = "#34D399"
	pieColors   = opts.Colors{"#34D399", "#22C55E", "#10B981", "#3B82F6", "#2563EB"}
	labelColor  = "#e0e0e0"
	titleColor  = "#ffffff"
	chartHeight = "420px"
)

// TopArtistsBar renders the play count bar chart as an HTML fragment ready to
// embed in the dashboard template. The page is responsible for loading the
// echarts script once.
func TopArtistsBar(ranked []track.ArtistPlays, topN int) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          chartHeight,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("Top %d Artists by Plays", topN),
			TitleStyle: &opts.TextStyle{Color: titleColor, FontSize: 18},
		}),
		charts.WithColorsOpts(opts.Colors{barColor}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45, Color: labelColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: labelColor},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	names := make([]string, 0, len(ranked))
	values := make([]opts.BarData, 0, len(ranked))
	for _, ap := range ranked {
		names = append(names, ap.Artist)
		values = append(values, opts.BarData{Value: ap.Plays})
	}
	bar.SetXAxis(names).AddSeries("Plays", values)

	snippet := bar.Renderer.RenderSnippet()
	return template.HTML(snippet.Element + "\n" + snippet.Script)
}

// TopGenresPie renders the genre distribution donut as an HTML fragment.
func TopGenresPie(ranked []track.GenrePlays) template.HTML {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          chartHeight,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Top Genres by Plays",
			TitleStyle: &opts.TextStyle{Color: titleColor, FontSize: 18},
		}),
		charts.WithColorsOpts(pieColors),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	data := make([]opts.PieData, 0, len(ranked))
	for _, gp := range ranked {
		data = append(data, opts.PieData{Name: gp.Genre, Value: gp.Plays})
	}
	pie.AddSeries("Genres", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Color:     labelColor,
			Formatter: "{b}: {d}%",
		}),
		charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"35%", "70%"},
		}),
	)

	snippet := pie.Renderer.RenderSnippet()
	return template.HTML(snippet.Element + "\n" + snippet.Script)
}
