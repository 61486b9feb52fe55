// Package domain models multi-year Open-Meteo weather series for a grid of
// cells over Germany and derives drone-operation exceedance statistics from them.
//
// # Data Source
//
// The cache document is produced by an offline fetcher that queries the
// Open-Meteo historical archive (https://archive-api.open-meteo.com/v1/archive)
// once per cell and year, with timezone=GMT and wind_speed_unit=ms. The
// document is keyed by year, then by cell id:
//
//	{
//	  "2024": {
//	    "cell-0-0": {
//	      "id": "cell-0-0", "lat": 47.41, "lon": 6.47,
//	      "bounds": [[47.0, 5.5], [47.82, 7.44]],
//	      "daily":  {"time": [...], "temperature_2m_max": [...], "precipitation_sum": [...], "wind_speed_10m_max": [...]},
//	      "hourly": {"time": [...], "temperature_2m": [...], "precipitation": [...], "wind_speed_10m": [...]}
//	    }
//	  }
//	}
//
// Years are written in fetch order, which is not necessarily chronological.
// [ParseCache] keeps both the year order and the cell order of the document,
// and [MergeYears] appends series positionally in that order.
//
// # Series Conventions
//
// Daily series hold one entry per calendar day. Hourly series hold 24
// entries per day, so hour h of day d lives at index d*24+h. Open-Meteo
// writes null for missing samples; these decode to NaN, which never exceeds
// a threshold.
//
// Units:
//
//	temperature_2m, temperature_2m_max   °C
//	precipitation                        mm per hour
//	precipitation_sum                    mm per day
//	wind_speed_10m, wind_speed_10m_max   m/s
//
// # Exceedance Rules
//
// A day exceeds a variable when its daily peak (or sum, for precipitation)
// is strictly greater than the threshold. Sub-day duration is counted from
// the hourly series: hours above the threshold for temperature and wind, and
// hours with any rainfall at all for precipitation. The precipitation rule
// does not compare hours against the threshold, since a daily sum threshold
// has no hourly equivalent.
//
// Rates are annualized by years = days/365.25, a coverage approximation that
// is not aligned to calendar years.
//
// # Visual Encoding
//
// The annualized total exceedance rate is mapped to a colour band by
// [Classify]:
//
//	0           transparent  opacity 0
//	(0, 30]     green        0.3 .. 0.6
//	(30, 70]    yellow       0.5 .. 0.8
//	(70, 200)   orange       0.6 .. 0.9
//	>= 200      red          0.9
package domain
