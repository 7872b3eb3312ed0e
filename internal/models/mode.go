package models

// Mode disambiguates create from edit for admin mutations. It is carried
// explicitly through the whole operation; field presence is never used to
// infer it, so an empty or zero id can not be mistaken for "new".
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)
