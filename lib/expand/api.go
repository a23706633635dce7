/*
Package expand performs shell-like parameter expansion on path expressions.

Both $NAME and ${NAME} are expanded. A variable may be followed by a range
selector of the form [<sep><start>:<end>]: the value is split on the sep
character and the components from start to end are joined again. Negative
indices count from the end. For example, ${PWD[/:-1]} is the parent of the
current directory.
*/
package expand

// Expression expands every variable in expr using mappingFunc to look up
// variables. Variables which map to the empty string expand to nothing.
func Expression(expr string, mappingFunc func(string) string) string {
	return expandExpression(expr, mappingFunc)
}

// Opportunistic is similar to Expression except that if any variable maps to
// the empty string, expr is returned unmodified.
func Opportunistic(expr string, mappingFunc func(string) string) string {
	return expandOpportunisticExpression(expr, mappingFunc)
}

// Variable expands a single variable, which may include a range selector.
func Variable(variable string, mappingFunc func(string) string) string {
	return expandVariable(variable, mappingFunc)
}
