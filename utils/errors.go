package utils

// PermError marks an error as permanent so retry loops stop immediately.
type PermError string

func (e PermError) Error() string {
	return string(e)
}

func (e PermError) IsPermanent() bool {
	return true
}
