/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "github.com/tomoncle/estate/database"

// Table names.
const (
	TableUsers           = "users"
	TableProperties      = "properties"
	TablePropertyImages  = "property_images"
	TableFavorites       = "favorites"
	TablePayments        = "payments"
	TableContactMessages = "contact_messages"
)

func references(table, column, refTable, onDelete string) database.ForeignKeyConstraint {
	return database.ForeignKeyConstraint{
		Table:           table,
		Column:          column,
		ReferenceTable:  refTable,
		ReferenceColumn: "id",
		OnDelete:        onDelete,
	}
}

func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 1,
		database.WithIndexes(
			database.NewUniqueExprIndex(TableUsers, "ux_users_email_lower", "lower(email)"),
		),
	))
	database.RegisteredModel(database.NewModelAdapter((*Property)(nil), 2,
		database.WithForeignKeys(references(TableProperties, "user_id", TableUsers, "RESTRICT")),
		database.WithIndexes(
			database.NewIndex(TableProperties, "ix_properties_type", "type"),
			database.NewIndex(TableProperties, "ix_properties_status", "status"),
			database.NewIndex(TableProperties, "ix_properties_city", "city"),
			database.NewIndex(TableProperties, "ix_properties_price", "price"),
			database.NewIndex(TableProperties, "ix_properties_is_featured", "is_featured"),
			database.NewIndex(TableProperties, "ix_properties_is_published", "is_published"),
		),
	))
	database.RegisteredModel(database.NewModelAdapter((*PropertyImage)(nil), 3,
		database.WithForeignKeys(references(TablePropertyImages, "property_id", TableProperties, "CASCADE")),
		database.WithIndexes(
			database.NewIndex(TablePropertyImages, "ix_property_images_display_order", "display_order"),
		),
	))
	// the pair index ignores is_deleted; toggling revives the existing row
	database.RegisteredModel(database.NewModelAdapter((*Favorite)(nil), 3,
		database.WithForeignKeys(
			references(TableFavorites, "user_id", TableUsers, "CASCADE"),
			references(TableFavorites, "property_id", TableProperties, "CASCADE"),
		),
		database.WithIndexes(
			database.NewUniqueIndex(TableFavorites, "ux_favorites_user_property", "user_id", "property_id"),
		),
	))
	database.RegisteredModel(database.NewModelAdapter((*Payment)(nil), 3,
		database.WithForeignKeys(
			references(TablePayments, "user_id", TableUsers, "SET NULL"),
			references(TablePayments, "property_id", TableProperties, "SET NULL"),
		),
		database.WithIndexes(
			database.NewIndex(TablePayments, "ix_payments_status", "status"),
			database.NewIndex(TablePayments, "ix_payments_transaction_id", "transaction_id"),
		),
	))
	database.RegisteredModel(database.NewModelAdapter((*ContactMessage)(nil), 3,
		database.WithForeignKeys(
			references(TableContactMessages, "user_id", TableUsers, "SET NULL"),
			references(TableContactMessages, "property_id", TableProperties, "SET NULL"),
		),
		database.WithIndexes(
			database.NewIndex(TableContactMessages, "ix_contact_messages_is_read", "is_read"),
			database.NewIndex(TableContactMessages, "ix_contact_messages_is_replied", "is_replied"),
		),
	))
}
