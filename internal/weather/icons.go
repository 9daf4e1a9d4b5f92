package weather

// Icon is a display icon identifier understood by the view layer.
type Icon string

const (
	IconSun       Icon = "sun"
	IconMoon      Icon = "moon"
	IconCloudSun  Icon = "cloud_sun"
	IconCloudMoon Icon = "cloud_moon"
	IconCloud     Icon = "cloud"
	IconRain      Icon = "rain"
	IconStorm     Icon = "storm"
	IconSnow      Icon = "snow"
	IconFog       Icon = "fog"
)

// MapIcon translates a provider icon code into a display icon. The
// provider vocabulary is fixed; anything outside it falls back to the
// generic cloud icon rather than failing.
func MapIcon(code string) Icon {
	switch code {
	case "01d":
		return IconSun
	case "01n":
		return IconMoon
	case "02d":
		return IconCloudSun
	case "02n":
		return IconCloudMoon
	case "03d", "03n", "04d", "04n":
		return IconCloud
	case "09d", "09n", "10d", "10n":
		return IconRain
	case "11d", "11n":
		return IconStorm
	case "13d", "13n":
		return IconSnow
	case "50d", "50n":
		return IconFog
	default:
		return IconCloud
	}
}
