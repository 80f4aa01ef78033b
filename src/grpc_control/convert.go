package grpc_control

import (
	"fmt"

	"price-ticker/src/models"

	"google.golang.org/protobuf/types/known/structpb"
)

// -----------------------------------------------------------------------------
// Wire mapping between MPriceUpdate and google.protobuf.Struct
// -----------------------------------------------------------------------------

const (
	fieldSymbol    = "symbol"
	fieldPrice     = "price"
	fieldTimestamp = "timestamp_ms"
)

func UpdateToStruct(u models.MPriceUpdate) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSymbol:    structpb.NewStringValue(u.Symbol),
		fieldPrice:     structpb.NewNumberValue(u.Price),
		fieldTimestamp: structpb.NewNumberValue(float64(u.TimestampMs)),
	}}
}

// -----------------------------------------------------------------------------

func StructToUpdate(s *structpb.Struct) (models.MPriceUpdate, error) {
	fields := s.GetFields()

	sym, ok := fields[fieldSymbol].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return models.MPriceUpdate{}, fmt.Errorf("update is missing %q", fieldSymbol)
	}
	price, ok := fields[fieldPrice].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return models.MPriceUpdate{}, fmt.Errorf("update is missing %q", fieldPrice)
	}

	return models.MPriceUpdate{
		Symbol:      sym.StringValue,
		Price:       price.NumberValue,
		TimestampMs: int64(fields[fieldTimestamp].GetNumberValue()),
	}, nil
}

// -----------------------------------------------------------------------------

func SymbolsToList(symbols []string) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(symbols))
	for _, s := range symbols {
		values = append(values, structpb.NewStringValue(s))
	}
	return &structpb.ListValue{Values: values}
}

// -----------------------------------------------------------------------------

func ListToSymbols(l *structpb.ListValue) ([]string, error) {
	out := make([]string, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("symbol %d is not a string", i)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func UpdatesToList(updates []models.MPriceUpdate) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(updates))
	for _, u := range updates {
		values = append(values, structpb.NewStructValue(UpdateToStruct(u)))
	}
	return &structpb.ListValue{Values: values}
}

// -----------------------------------------------------------------------------

func ListToUpdates(l *structpb.ListValue) ([]models.MPriceUpdate, error) {
	out := make([]models.MPriceUpdate, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		u, err := StructToUpdate(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
