// Package prompt asks the operator yes/no questions on a terminal.
package prompt
