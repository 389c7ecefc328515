package repository

var (
	NullableString    = nullableString
	NullableTime      = nullableTime
	ParseNullableTime = parseNullableTime
	IsUniqueViolation = isUniqueViolation
)
