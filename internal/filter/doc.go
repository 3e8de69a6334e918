// Package filter implements the filter-and-aggregate pipeline over a
// [dataset.Table]. A [Request] carries include/exclude selections for each
// dimension plus an inclusive date range; [Apply] narrows the table and
// counts the survivors per charted dimension.
//
// Each narrowing step is a [Filter]; a [Chain] applies them in order,
// feeding the records kept by one step into the next. Filters are pure:
// they never mutate the table they read from.
package filter
