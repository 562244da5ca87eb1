// Package gen receives the generated factory.
package gen
