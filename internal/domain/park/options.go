package park

// Option configures a Deriver.
type Option func(*Deriver)

// WithStadiums replaces the reference table.
func WithStadiums(stadiums []Stadium) Option {
	return func(d *Deriver) {
		if stadiums != nil {
			d.stadiums = index(stadiums)
		}
	}
}
