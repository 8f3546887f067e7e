package catalog

// Spec alias tables. Each output field lists the raw keys it may arrive
// under, in priority order. The nested specs object is searched before
// top-level fields.
var (
	aliasNoise      = []string{"noise_level", "noise", "noise_db"}
	aliasPower      = []string{"power_consumption", "power", "wattage"}
	aliasEfficiency = []string{"energy_efficiency", "efficiency", "energy_rating"}
	aliasCoverage   = []string{"coverage_area", "coverage", "room_size"}

	aliasDailyCapacity = []string{"daily_capacity", "dehumidification_capacity", "capacity"}
	aliasTankCapacity  = []string{"tank_capacity", "tank"}
	aliasDehumType     = []string{"type", "dehumidifier_type"}

	aliasCADR       = []string{"cadr", "clean_air_delivery_rate"}
	aliasPurifierCv = []string{"coverage_area", "coverage"}
	aliasFilterType = []string{"filter_type", "filter"}
	aliasHumidify   = []string{"humidifying", "has_humidifier", "humidify"}

	aliasCooling  = []string{"cooling_capacity", "capacity_cooling"}
	aliasHeating  = []string{"heating_capacity", "capacity_heating"}
	aliasCSPF     = []string{"cspf", "apf"}
	aliasInverter = []string{"inverter", "is_inverter"}

	aliasHeatOutput = []string{"heat_output", "heating_power", "output"}
	aliasHeaterType = []string{"heater_type", "type"}
	aliasTipOver    = []string{"tip_over_protection", "tip_over_switch"}

	aliasAirflow     = []string{"airflow", "air_volume"}
	aliasMotor       = []string{"motor", "motor_type"}
	aliasSpeedLevels = []string{"speed_levels", "speeds"}
	aliasRemote      = []string{"has_remote", "remote"}
)

// Dehumidifier data-quality gate. Items from other categories were scraped
// into the dehumidifier listing; names must mention dehumidifying and must
// not mention another appliance.
var (
	dehumidifierRequired = []string{"除湿", "dehumidif"}
	dehumidifierExcluded = []string{
		"加湿器", "humidifier",
		"扇風機", "fan",
		"サーキュレーター", "circulator",
		"ヒーター", "heater",
		"アロマ", "aroma", "diffuser", "ディフューザー",
	}
)

// Popular brands earn a flat popularity bonus. Matched case-insensitively as
// substrings of the brand.
var PopularBrands = []string{
	"panasonic", "パナソニック",
	"sharp", "シャープ",
	"mitsubishi", "三菱",
	"daikin", "ダイキン",
	"hitachi", "日立",
	"corona", "コロナ",
	"iris ohyama", "アイリスオーヤマ",
	"dyson", "ダイソン",
	"balmuda", "バルミューダ",
}
