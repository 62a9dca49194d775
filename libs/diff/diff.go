package diff

import (
	"reflect"

	odiff "github.com/r3labs/diff/v3"
	"github.com/shopspring/decimal"
)

func GetCustomDiffer() *odiff.Differ {
	ret, err := odiff.NewDiffer(odiff.CustomValueDiffers(&DecimalComparer{}))
	if err != nil {
		panic(err)
	}
	return ret
}

// DecimalComparer makes the differ treat decimal.Decimal as a leaf value
// compared with Equal, instead of deep-diffing its unexported fields.
type DecimalComparer struct{}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Match check is field match this custom type
func (c DecimalComparer) Match(a, b reflect.Value) bool {
	aok := a.Kind() == decimalType.Kind() && a.Type() == decimalType
	bok := b.Kind() == decimalType.Kind() && b.Type() == decimalType
	return (aok && bok) || (a.Kind() == reflect.Invalid && bok) || (b.Kind() == reflect.Invalid && aok)
}

// Diff check is diff or not
func (c DecimalComparer) Diff(_ odiff.DiffType, _ odiff.DiffFunc, cl *odiff.Changelog, path []string, a reflect.Value, b reflect.Value, _ interface{}) error {
	valA := reflect.Indirect(a)
	valB := reflect.Indirect(b)

	if !valA.IsValid() || !valB.IsValid() {
		if valA.IsValid() != valB.IsValid() {
			cl.Add(odiff.UPDATE, path, a.Interface(), b.Interface())
		}
		return nil
	}

	d1 := valA.Interface().(decimal.Decimal)
	d2 := valB.Interface().(decimal.Decimal)

	if !d1.Equal(d2) {
		cl.Add(odiff.UPDATE, path, d1, d2)
	}
	return nil
}

// InsertParentDiffer do something with parent,
// decimal is leaf, so do not thing
func (c DecimalComparer) InsertParentDiffer(_ func(path []string, a reflect.Value, b reflect.Value, p interface{}) error) {
	// do not thing
}
