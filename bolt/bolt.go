package bolt

import "encoding/binary"

// itob returns an 8-byte big-endian encoded byte slice of v.
func itob(v int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// btoi returns an integer decoded from an 8-byte big-endian encoded byte slice.
func btoi(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}

// makeUserIndexKey returns an index key of <userID,id>. User IDs are
// opaque strings so a NUL separator keeps one user's prefix from
// matching another's.
func makeUserIndexKey(userID string, id int) []byte {
	key := make([]byte, 0, len(userID)+9)
	key = append(key, userID...)
	key = append(key, 0)
	key = append(key, itob(id)...)
	return key
}

// userIndexPrefix returns the index key prefix for all of a user's records.
func userIndexPrefix(userID string) []byte {
	return append([]byte(userID), 0)
}
