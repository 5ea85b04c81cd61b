package azure

import (
	"fmt"
	"strings"
)

const (
	FieldServiceFamily = "serviceFamily"
	FieldServiceName   = "serviceName"
	FieldArmRegionName = "armRegionName"
	FieldPriceType     = "priceType"
	FieldSkuName       = "skuName"
)

type FilterClause struct {
	Field string
	Value string
}

// Filter is a conjunction of equality clauses in the Retail Prices OData filter syntax.
type Filter []FilterClause

func NewFilter() Filter {
	return Filter{}
}

func (filter Filter) Eq(field string, value string) Filter {
	clauses := make(Filter, len(filter), len(filter)+1)
	copy(clauses, filter)
	return append(clauses, FilterClause{Field: field, Value: value})
}

func (filter Filter) String() string {
	clauses := make([]string, 0, len(filter))
	for _, clause := range filter {
		clauses = append(clauses, fmt.Sprintf("%s eq '%s'", clause.Field, strings.ReplaceAll(clause.Value, "'", "''")))
	}
	return strings.Join(clauses, " and ")
}
