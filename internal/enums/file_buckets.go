package enums

const (
	FILE_BUCKET_USER_AVATAR = "user-avatars"
)
