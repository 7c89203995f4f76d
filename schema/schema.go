// Package schema describes Arrow schemas and maps them to Parquet JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// this represents order of tags in Parquet JSON schema
var orderedTags = []string{
	"name",
	"type",
	"convertedtype",
	"repetitiontype",
}

// Field is a flat description of an Arrow field
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ParquetNode is a node of the JSON schema accepted by parquet-go writers
type ParquetNode struct {
	Tag    string        `json:"Tag"`
	Fields []ParquetNode `json:"Fields,omitempty"`
}

// Describe lists fields of s in column order
func Describe(s *arrow.Schema) []Field {
	fields := make([]Field, s.NumFields())
	for i, f := range s.Fields() {
		fields[i] = Field{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
		}
	}
	return fields
}

// JSONSchema returns JSON format of Describe
func JSONSchema(s *arrow.Schema) (string, error) {
	buf, err := json.Marshal(Describe(s))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ParquetSchema returns the Parquet JSON schema that holds the same columns as s
func ParquetSchema(s *arrow.Schema) (string, error) {
	root := ParquetNode{
		Tag: tagString(map[string]string{"name": "parquet_go_root", "repetitiontype": "REQUIRED"}),
	}
	for _, f := range s.Fields() {
		tagMap, err := parquetTagMap(f)
		if err != nil {
			return "", err
		}
		root.Fields = append(root.Fields, ParquetNode{Tag: tagString(tagMap)})
	}

	buf, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func parquetTagMap(f arrow.Field) (map[string]string, error) {
	tagMap := map[string]string{
		"name":           f.Name,
		"repetitiontype": "REQUIRED",
	}
	if f.Nullable {
		tagMap["repetitiontype"] = "OPTIONAL"
	}

	dataType := f.Type
	if dict, ok := dataType.(*arrow.DictionaryType); ok {
		dataType = dict.ValueType
	}
	switch dataType.ID() {
	case arrow.BOOL:
		tagMap["type"] = "BOOLEAN"
	case arrow.INT64:
		tagMap["type"] = "INT64"
	case arrow.FLOAT64:
		tagMap["type"] = "DOUBLE"
	case arrow.STRING, arrow.NULL:
		// null columns have no Parquet counterpart, they become all-null strings
		tagMap["type"] = "BYTE_ARRAY"
		tagMap["convertedtype"] = "UTF8"
		if dataType.ID() == arrow.NULL {
			tagMap["repetitiontype"] = "OPTIONAL"
		}
	default:
		return nil, fmt.Errorf("field [%s] with type [%s] is not supported in Parquet", f.Name, f.Type)
	}
	return tagMap, nil
}

func tagString(tagMap map[string]string) string {
	tags := make([]string, 0, len(tagMap))
	for _, tag := range orderedTags {
		if value, found := tagMap[tag]; found {
			tags = append(tags, tag+"="+value)
		}
	}
	return strings.Join(tags, ", ")
}
