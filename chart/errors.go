package chart

import "errors"

// ErrNoDataset indicates that Build was called without a dataset.
var ErrNoDataset = errors.New("no dataset to chart")

// ErrInvalidSize indicates a non-positive canvas width or height.
var ErrInvalidSize = errors.New("chart size must be positive")
