package rowio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rowflow/rowflow/row"
)

type (
	// ParquetSchemaAccumulator infers a parquet schema from the rows it sees,
	// since row streams carry no declared schema. Feed it every row before
	// asking for the schema string.
	ParquetSchemaAccumulator struct {
		schema parquetSchema
	}

	parquetSchema struct {
		TagStructs schemaTag        `json:"-,omitempty"`
		Fields     []*parquetSchema `json:",omitempty"`
	}

	parquetJSONSchema struct {
		Tag    string               `json:",omitempty"`
		Fields []*parquetJSONSchema `json:",omitempty"`
	}

	schemaTag struct {
		Name           string         `json:"name,omitempty"`
		Type           string         `json:"type,omitempty"`
		ConvertedType  string         `json:"convertedtype,omitempty"`
		RepetitionType repetitionType `json:"repetitiontype,omitempty"`
		Encoding       string         `json:"encoding,omitempty"`
	}

	repetitionType string
)

var (
	optional repetitionType = "OPTIONAL"
	required repetitionType = "REQUIRED"
)

func NewParquetAccumulator() ParquetSchemaAccumulator {
	return ParquetSchemaAccumulator{
		schema: parquetSchema{
			TagStructs: schemaTag{
				Name:           "parquet_go_root",
				RepetitionType: required,
			},
		},
	}
}

func (pa *ParquetSchemaAccumulator) WriteRow(r row.Row) {
	for key, val := range r {
		if pa.fieldExists(key) {
			continue
		}
		colSchema := pa.getParquetSchema(key, val)
		if colSchema != nil {
			pa.schema.Fields = append(pa.schema.Fields, colSchema)
		}
	}
}

func (pa *ParquetSchemaAccumulator) getParquetSchema(key string, item any) *parquetSchema {
	schema := &parquetSchema{
		TagStructs: schemaTag{
			Name:           strings.ToUpper(key[:1]) + key[1:],
			RepetitionType: optional,
		},
	}

	switch v := item.(type) {
	case []any:
		if len(v) == 0 || v[0] == nil {
			// can't infer an element type, wait for a later row
			return nil
		}
		schema.TagStructs.Type = "LIST"
		schema.Fields = append(schema.Fields, pa.getParquetSchema("Element", v[0]))
	case string:
		schema.TagStructs.Type = "BYTE_ARRAY"
		schema.TagStructs.ConvertedType = "UTF8"
		schema.TagStructs.Encoding = "PLAIN"
	case int, int64:
		schema.TagStructs.Type = "INT64"
	case float64:
		schema.TagStructs.Type = "DOUBLE"
	default:
		schema.TagStructs.Type = "DOUBLE"
	}

	return schema
}

func (pa *ParquetSchemaAccumulator) fieldExists(fieldName string) (exists bool) {
	name := strings.ToUpper(fieldName[:1]) + fieldName[1:]
	for _, field := range pa.schema.Fields {
		if field.TagStructs.Name == name {
			return true
		}
	}
	return
}

func (pa *ParquetSchemaAccumulator) GetColumnNames() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.TagStructs.Name)
	}
	return cols
}

func (ps *parquetSchema) getType() string {
	switch ps.TagStructs.Type {
	case "BYTE_ARRAY":
		return "string"
	case "INT64":
		return "int"
	case "DOUBLE":
		return "float"
	case "LIST":
		return fmt.Sprintf("list(%s)", ps.Fields[0].getType())
	default:
		return "unknown"
	}
}

// GetColumnTypes returns the column types in GetColumnNames order, one of
// `string`, `int`, `float`, or `list(x)`.
func (pa *ParquetSchemaAccumulator) GetColumnTypes() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.getType())
	}
	return cols
}

func (ps *parquetSchema) toParquetJSONSchema() *parquetJSONSchema {
	var tagArr []string
	if ps.TagStructs.Type != "" {
		tagArr = append(tagArr, "type="+ps.TagStructs.Type)
	}
	if ps.TagStructs.ConvertedType != "" {
		tagArr = append(tagArr, "convertedtype="+ps.TagStructs.ConvertedType)
	}
	if ps.TagStructs.Encoding != "" {
		tagArr = append(tagArr, "encoding="+ps.TagStructs.Encoding)
	}
	if ps.TagStructs.Name != "" {
		tagArr = append(tagArr, "name="+ps.TagStructs.Name)
	}
	if string(ps.TagStructs.RepetitionType) != "" {
		tagArr = append(tagArr, "repetitiontype="+string(ps.TagStructs.RepetitionType))
	}
	var fields []*parquetJSONSchema
	for _, field := range ps.Fields {
		fields = append(fields, field.toParquetJSONSchema())
	}
	return &parquetJSONSchema{
		Tag:    strings.Join(tagArr, ", "),
		Fields: fields,
	}
}

// GetSchemaString returns the JSON formatted schema string for the parquet
// writer.
func (pa *ParquetSchemaAccumulator) GetSchemaString() (string, error) {
	var fields []*parquetJSONSchema
	for _, field := range pa.schema.Fields {
		fields = append(fields, field.toParquetJSONSchema())
	}
	pjs := parquetJSONSchema{
		Tag:    "name=parquet_go_root, repetitiontype=REQUIRED",
		Fields: fields,
	}

	b, err := json.Marshal(pjs)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}
