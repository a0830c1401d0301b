package types

import "strconv"

// Marker tags an identifier with the entity kind it names. Marker types are
// zero-sized and exist only at the type level; two IDs with different markers
// share the snowflake representation but are distinct types, so a user id
// cannot be passed where a post id is expected without an explicit
// conversion.
type Marker interface {
	entityKind() string
}

// UserMarker tags identifiers that name users.
type UserMarker struct{}

func (UserMarker) entityKind() string { return "user" }

// PostMarker tags identifiers that name posts.
type PostMarker struct{}

func (PostMarker) entityKind() string { return "post" }

// ID is a snowflake tagged with the entity kind it names. It carries no
// runtime state beyond the packed value and converts losslessly to and from
// the raw uint64.
type ID[M Marker] Snowflake

// UserID names a user.
type UserID = ID[UserMarker]

// PostID names a post.
type PostID = ID[PostMarker]

// NewID wraps a snowflake as an identifier for M. The conversion is explicit
// and intentional; there is no implicit path between marker kinds.
func NewID[M Marker](s Snowflake) ID[M] {
	return ID[M](s)
}

// IDFromUint64 wraps a raw packed value.
func IDFromUint64[M Marker](v uint64) ID[M] {
	return ID[M](v)
}

// Snowflake returns the untyped identifier.
func (id ID[M]) Snowflake() Snowflake {
	return Snowflake(id)
}

// Uint64 returns the raw packed value.
func (id ID[M]) Uint64() uint64 {
	return uint64(id)
}

// String renders the decimal wire form.
func (id ID[M]) String() string {
	return Snowflake(id).String()
}

// ParseID parses the decimal wire form of an identifier for M.
func ParseID[M Marker](s string) (ID[M], error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID[M](v), nil
}
