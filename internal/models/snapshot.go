package models

// SnapshotV1 is the on-disk persistence envelope for the record store.
// The explicit version field leaves room for format migrations.
type SnapshotV1 struct {
	Version int             `json:"version"`
	Records []*AvatarRecord `json:"records"`
}

const SnapshotVersion = 1
