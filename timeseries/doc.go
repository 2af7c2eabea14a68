// Package timeseries provides the date-indexed price series used for
// forecasting, the business-day calendar and the price file loader.
//
// # Loading Index Prices
//
// A price file holds one row per (index, date) with open/high/low/close,
// volume and currency columns. Load it once and pick an index:
//
//	table, err := timeseries.LoadPrices("nse_indexes.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Indexes())
//
//	series, err := table.Series("NIFTY 50")
//
// The returned series is sorted, reindexed onto every business day between
// its first and last observation and forward-filled, so it has no gaps and no
// missing values. An index with no rows yields ErrIndexNotFound.
//
// # Business Days
//
// Business days are Monday through Friday; holidays are not modeled:
//
//	next := timeseries.NextBusinessDay(series.Last())
//	future := timeseries.BusinessDaysAfter(series.Last(), 30)
//
// # Transformations
//
//	diff := series.Diff()             // First difference
//	sdiff := series.SeasonalDiff(5)   // Seasonal difference
//	tail := series.Tail(200)          // Last 200 observations
//	filled := series.ForwardFill()    // Replace NaN with the previous value
package timeseries
