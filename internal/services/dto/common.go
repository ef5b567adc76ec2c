package dto

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func decodeJSONStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(data, &out)
	return out
}

func encodeJSONStrings(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}
