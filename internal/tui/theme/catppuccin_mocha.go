package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#cba6f7", // Mauve
		Secondary: "#b4befe", // Lavender

		BgBase:     "#1e1e2e",
		BgMantle:   "#181825",
		BgSurface0: "#313244",

		FgMuted:  "#6c7086", // Overlay0
		FgSubtle: "#a6adc8", // Subtext0
		FgBase:   "#cdd6f4", // Text

		Success: "#a6e3a1", // Green
		Error:   "#f38ba8", // Red

		DiffInsertFg: "#a6e3a1",
		DiffDeleteFg: "#f38ba8",
	}
}
