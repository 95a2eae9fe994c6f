package model

// namer interface is design to give a unique solver-variable name to every position and predecessor variable
type namer interface {
	// Returns the name of the integer variable holding the vertex's position in the elimination order
	Position(vertex uint64) string
	// Returns the name of the boolean variable stating that "from" is a predecessor of "to"
	Predecessor(from, to uint64) string
}

func newNamer() namer {
	return &namerImplementation{}
}
