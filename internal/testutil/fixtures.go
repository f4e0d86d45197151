// Package testutil holds fixtures shared by package tests: a small sample
// schema, card builders and deterministic trace id generators.
package testutil

import (
	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/query"
)

// Sample database and table ids.
const (
	SampleDB      int64 = 1
	OrdersTable   int64 = 1
	ProductsTable int64 = 2
	PeopleTable   int64 = 3
)

// ORDERS fields.
const (
	OrdersID        int64 = 1
	OrdersCreatedAt int64 = 2
	OrdersProductID int64 = 3
	OrdersTotal     int64 = 4
	OrdersStatus    int64 = 5
	OrdersState     int64 = 6
	OrdersUserID    int64 = 7
)

// PRODUCTS fields.
const (
	ProductsID        int64 = 10
	ProductsCategory  int64 = 11
	ProductsCreatedAt int64 = 12
)

// PEOPLE fields.
const (
	PeopleID    int64 = 20
	PeopleState int64 = 21
)

func field(id, table int64, name, display, base, special string) *metadata.Field {
	f := &metadata.Field{
		ID:          id,
		TableID:     table,
		Name:        name,
		DisplayName: display,
		BaseType:    base,
		SpecialType: special,
	}
	f.Semantic = metadata.Classify(f)
	return f
}

// OrdersMetadata returns indexed metadata for ORDERS with PRODUCTS and PEOPLE
// as related tables. Each call returns a fresh value.
func OrdersMetadata() *metadata.TableMetadata {
	productFK := field(OrdersProductID, OrdersTable, "PRODUCT_ID", "Product ID", "type/Integer", metadata.TypeFK)
	productFK.TargetID = ProductsID
	userFK := field(OrdersUserID, OrdersTable, "USER_ID", "User ID", "type/Integer", metadata.TypeFK)
	userFK.TargetID = PeopleID

	md := &metadata.TableMetadata{
		Table: metadata.Table{
			ID:          OrdersTable,
			DBID:        SampleDB,
			Name:        "ORDERS",
			DisplayName: "Orders",
			Fields: []*metadata.Field{
				field(OrdersID, OrdersTable, "ID", "ID", "type/BigInteger", metadata.TypePK),
				field(OrdersCreatedAt, OrdersTable, "CREATED_AT", "Created At", metadata.TypeDateTime, ""),
				productFK,
				field(OrdersTotal, OrdersTable, "TOTAL", "Total", "type/Float", ""),
				field(OrdersStatus, OrdersTable, "STATUS", "Status", "type/Text", metadata.TypeCategory),
				field(OrdersState, OrdersTable, "SHIPPING_STATE", "Shipping State", "type/Text", metadata.TypeState),
				userFK,
			},
		},
		Related: []*metadata.Table{
			{
				ID:          ProductsTable,
				DBID:        SampleDB,
				Name:        "PRODUCTS",
				DisplayName: "Products",
				Fields: []*metadata.Field{
					field(ProductsID, ProductsTable, "ID", "ID", "type/BigInteger", metadata.TypePK),
					field(ProductsCategory, ProductsTable, "CATEGORY", "Category", "type/Text", metadata.TypeCategory),
					field(ProductsCreatedAt, ProductsTable, "CREATED_AT", "Created At", metadata.TypeDateTime, ""),
				},
			},
			{
				ID:          PeopleTable,
				DBID:        SampleDB,
				Name:        "PEOPLE",
				DisplayName: "People",
				Fields: []*metadata.Field{
					field(PeopleID, PeopleTable, "ID", "ID", "type/BigInteger", metadata.TypePK),
					field(PeopleState, PeopleTable, "STATE", "State", "type/Text", metadata.TypeState),
				},
			},
		},
	}
	return md.Index()
}

// OrdersCard returns a raw structured card over ORDERS.
func OrdersCard() *query.Card {
	return query.NewStructuredCard(SampleDB, OrdersTable)
}

// CountCard returns ORDERS with a count aggregation.
func CountCard() *query.Card {
	card := OrdersCard()
	card.Structured().SetAggregation(ir.IRArray{ir.IRString("count")})
	return card
}

// CountBy returns ORDERS counted by the given breakout references.
func CountBy(breakouts ...ir.IRValue) *query.Card {
	card := CountCard()
	for _, b := range breakouts {
		card.Structured().AddBreakout(b)
	}
	return card
}

// FilteredCard returns raw ORDERS filtered by each clause in turn.
func FilteredCard(filters ...ir.IRArray) *query.Card {
	card := OrdersCard()
	for _, f := range filters {
		card.Structured().AddFilter(f)
	}
	return card
}

// FKRef builds ["fk->", ["field-id", fk], ["field-id", target]].
func FKRef(fk, target int64) ir.IRArray {
	return ir.IRArray{ir.IRString(query.OpFK), query.FieldRef(fk), query.FieldRef(target)}
}
