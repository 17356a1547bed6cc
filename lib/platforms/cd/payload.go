package cd

import (
	"cdpricesearch/lib/timezone"
	"net/url"
	"strings"
	"time"
)

// Query is a single one-way fare lookup.
type Query struct {
	Date        time.Time
	Origin      string
	Destination string
	Via         string
}

type formField struct {
	key   string
	value string
}

// the booking form's station list id for free-text station names
const stationListId = "100003"

// searchForm lists the journey search fields in the order the booking site
// submits them. only the stations and the dates vary, everything else
// pins a class 2 search for one adult without any extra services.
func searchForm(date, origin, destination, via string) []formField {
	return []formField{
		{"ttCombination", "25"},
		{"formType", "1"},
		{"isReturnOnly", "false"},
		{"stations[from][listID]", stationListId},
		{"stations[from][name]", origin},
		{"stations[from][errorName]", "From"},
		{"stations[to][listID]", stationListId},
		{"stations[to][name]", destination},
		{"stations[to][errorName]", "To"},
		{"stations[vias][0][listID]", "0"},
		{"stations[vias][0][name]", via},
		{"stations[vias][0][errorName]", "Via[1]"},
		{"stations[isViaChange]", "false"},
		{"services[bike]", "false"},
		{"services[children]", "false"},
		{"services[wheelChair]", "false"},
		{"services[refreshment]", "false"},
		{"services[carTrain]", "false"},
		{"services[silentComp]", "false"},
		{"services[ladiesComp]", "false"},
		{"services[powerSupply]", "false"},
		{"services[wiFi]", "false"},
		{"services[inSenior]", "false"},
		{"services[beds]", "false"},
		{"services[serviceClass]", "Class2"},
		{"dateTime[isReturn]", "false"},
		{"dateTime[date]", date},
		{"dateTime[time]", "0:1"},
		{"dateTime[isDeparture]", "true"},
		{"dateTime[dateReturn]", date},
		{"dateTime[timeReturn]", "19:33"},
		{"dateTime[isDepartureReturn]", "true"},
		{"params[onlyDirectConnections]", "false"},
		{"params[onlyConnWithoutRes]", "false"},
		{"params[useBed]", "NoLimit"},
		{"params[deltaPMax]", "-1"},
		{"params[maxChanges]", "4"},
		{"params[minChangeTime]", "-1"},
		{"params[maxChangeTime]", "240"},
		{"params[onlyCD]", "false"},
		{"params[onlyCDPartners]", "true"},
		{"params[historyTrain]", "false"},
		{"params[psgOwnTicket]", "false"},
		{"params[addServiceReservation]", "false"},
		{"params[addServiceDog]", "false"},
		{"params[addServiceBike]", "false"},
		{"params[addServiceSMS]", "false"},
		{"passengers[passengers][0][id]", "1"},
		{"passengers[passengers][0][typeID]", "5"},
		{"passengers[passengers][0][count]", "1"},
		{"passengers[passengers][0][age]", "-1"},
		{"passengers[passengers][0][ageState]", "0"},
		{"passengers[passengers][0][cardIDs]", ""},
		{"passengers[passengers][0][isFavourite]", "false"},
		{"passengers[passengers][0][isDefault]", "false"},
		{"passengers[passengers][0][isSelected]", "true"},
		{"passengers[passengers][0][nickname]", ""},
		{"passengers[passengers][0][phone]", ""},
		{"passengers[passengers][0][cardTypeID]", "0"},
		{"passengers[passengers][0][fullname]", ""},
		{"passengers[passengers][0][cardNumber]", ""},
		{"passengers[passengers][0][birthdate]", ""},
		{"passengers[passengers][0][avatar]", ""},
		{"passengers[passengers][0][image]", ""},
		{"passengers[passengers][0][companyName]", ""},
	}
}

// BuildPayload renders the form encoded journey search body. url.Values is
// not used since it sorts keys and the booking site expects this order.
func BuildPayload(q Query) string {
	fields := searchForm(timezone.FormatDate(q.Date), q.Origin, q.Destination, q.Via)

	var out strings.Builder
	for i, f := range fields {
		if i > 0 {
			out.WriteByte('&')
		}
		out.WriteString(url.QueryEscape(f.key))
		out.WriteByte('=')
		out.WriteString(url.QueryEscape(f.value))
	}
	return out.String()
}
