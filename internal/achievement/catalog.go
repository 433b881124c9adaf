package achievement

// Achievement names known to the site.
const (
	Konami         = "konami"
	Explorer       = "explorer"
	Clicker        = "clicker"
	KeyboardMaster = "keyboard_master"
	GardenKeeper   = "garden_keeper"
)

// Entry describes one achievement for display purposes.
type Entry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

var catalog = []Entry{
	{Name: Konami, Title: "Konami Code Master! 🎮"},
	{Name: Explorer, Title: "Garden Explorer! 🗺️"},
	{Name: Clicker, Title: "Click Master! 🖱️"},
	{Name: KeyboardMaster, Title: "Keyboard Ninja! ⌨️"},
	{Name: GardenKeeper, Title: "Garden Keeper! 🌱"},
}

// Catalog returns the known achievements with their titles in display order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the known achievement names in display order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.Name
	}
	return out
}

// Title returns the display title for name, falling back to a generic one.
func Title(name string) string {
	for _, e := range catalog {
		if e.Name == name {
			return e.Title
		}
	}
	return "Achievement Unlocked! 🏆"
}
