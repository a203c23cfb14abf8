//go:generate go run ./internal/tools/bootstrapgen -o . -force

package folio
