// Package timeseries provides the timestamped series type shared by all
// pipeline stages.
//
// A [Series] holds strictly increasing timestamps and one or more named
// float64 value channels; missing samples are NaN. Transformations return
// derived series and never modify their input, so a pipeline is a linear
// composition of pure steps.
//
// [Series.Sampling] derives the effective sample spacing from the modal
// inter-sample interval. The descriptor is a plain value passed explicitly
// to downstream stages rather than cached on the series.
//
// CSV persistence ([LoadCSV], [Series.SaveCSV]) uses RFC 3339 timestamps
// and empty cells for missing values.
package timeseries
