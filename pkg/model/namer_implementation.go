package model

import "strconv"

const (
	positionPrefix    = "pos-"
	predecessorPrefix = "pred-"
)

type namerImplementation struct{}

func (namer *namerImplementation) Position(vertex uint64) string {
	return positionPrefix + strconv.FormatUint(vertex, 10)
}

func (namer *namerImplementation) Predecessor(from, to uint64) string {
	return predecessorPrefix + strconv.FormatUint(from, 10) + "-" + strconv.FormatUint(to, 10)
}
