// Package charts renders dashboard aggregates as static PNG images with
// gonum/plot. Charts are grouped bar charts: one bar per series for every
// category, e.g. paid and non-paid drivers for every age band.
package charts
