package sampling

import "strings"

// MCG unit codes: 0=mV, 1=uV, 2=nV, 3=pV, 4=nT, 5=pT, 6=fT, 7=ppmHp, 8=%Ht,
// 9=nT/s, 10=pT/s.
var bFieldUnitCodes = map[int]bool{4: true, 5: true, 6: true, 7: true, 8: true}

var bFieldIndicators = []string{"nt", "pt", "tesla", "gauss", "magnetic", "field", "%ht", "bfield"}
var dbdtIndicators = []string{"db/dt", "dbdt", "v/m", "mv/m", "derivative", "rate", "v", "volt"}

// DetectFieldTypeCode maps an MCG integer unit code to a field type.
// Voltage and derivative units read as dB/dt; unknown codes default to B.
func DetectFieldTypeCode(code int) FieldType {
	if bFieldUnitCodes[code] {
		return FieldTypeB
	}
	if code >= 0 && code <= 10 {
		return FieldTypeDBDT
	}
	return FieldTypeB
}

// DetectFieldType maps a unit string (nT, pT, nT/s, mV, ...) to a field type,
// defaulting to B when nothing matches.
func DetectFieldType(units string) FieldType {
	lower := strings.ToLower(units)
	for _, ind := range bFieldIndicators {
		if strings.Contains(lower, ind) {
			return FieldTypeB
		}
	}
	for _, ind := range dbdtIndicators {
		if strings.Contains(lower, ind) {
			return FieldTypeDBDT
		}
	}
	return FieldTypeB
}
