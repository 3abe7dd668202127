package model

import "innkeep/shared/model"

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID       = "id"
	FieldName     = "name"
	FieldAddress  = "address"
	FieldTimezone = "timezone"
	FieldActive   = "active"

	MemberTableName  = "property_members"
	MemberEntityName = "property_member"

	FieldPropertyID = "property_id"
	FieldUserID     = "user_id"
	FieldRole       = "role"
)

type Property struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Address  string `db:"address"`
	Timezone string `db:"timezone"`
	Active   bool   `db:"active"`
	model.Metadata
}

type Member struct {
	ID         string `db:"id"`
	PropertyID string `db:"property_id"`
	UserID     string `db:"user_id"`
	Role       string `db:"role"`
	UserName   string `db:"user_name"  table:"users" column:"name"`
	UserEmail  string `db:"user_email" table:"users" column:"email"`
	model.Metadata
}

func (Member) GetJoinQuery() string {
	return "JOIN users ON users.id = property_members.user_id"
}
