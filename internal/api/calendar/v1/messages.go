package calendarv1

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// Имена полей сообщений.
const (
	FieldSpecialtyID = "specialtyId"
	FieldUserID      = "userId"
	FieldDate        = "date"
	FieldFromDate    = "fromDate"
	FieldToDate      = "toDate"
	FieldStartTime   = "startTime"
	FieldEndTime     = "endTime"
	FieldDayOfWeek   = "dayOfWeek"
	FieldSlots       = "slots"
	FieldDays        = "days"
	FieldAllowed     = "allowed"
	FieldReason      = "reason"
)

// ListSlotsRequest: specialtyId, date (YYYY-MM-DD).
type ListSlotsRequest struct {
	SpecialtyID string
	Date        string
}

func (r ListSlotsRequest) Proto() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		FieldSpecialtyID: structpb.NewStringValue(r.SpecialtyID),
		FieldDate:        structpb.NewStringValue(r.Date),
	})
}

func ParseListSlotsRequest(s *structpb.Struct) ListSlotsRequest {
	return ListSlotsRequest{
		SpecialtyID: stringField(s, FieldSpecialtyID),
		Date:        stringField(s, FieldDate),
	}
}

// ListSlotsRangeRequest: specialtyId, fromDate, toDate.
type ListSlotsRangeRequest struct {
	SpecialtyID string
	FromDate    string
	ToDate      string
}

func (r ListSlotsRangeRequest) Proto() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		FieldSpecialtyID: structpb.NewStringValue(r.SpecialtyID),
		FieldFromDate:    structpb.NewStringValue(r.FromDate),
		FieldToDate:      structpb.NewStringValue(r.ToDate),
	})
}

func ParseListSlotsRangeRequest(s *structpb.Struct) ListSlotsRangeRequest {
	return ListSlotsRangeRequest{
		SpecialtyID: stringField(s, FieldSpecialtyID),
		FromDate:    stringField(s, FieldFromDate),
		ToDate:      stringField(s, FieldToDate),
	}
}

// CheckReservationRequest: проверка бронирования без записи. userId необязателен.
type CheckReservationRequest struct {
	UserID      string
	SpecialtyID string
	Date        string
	StartTime   string
	EndTime     string
}

func (r CheckReservationRequest) Proto() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		FieldUserID:      structpb.NewStringValue(r.UserID),
		FieldSpecialtyID: structpb.NewStringValue(r.SpecialtyID),
		FieldDate:        structpb.NewStringValue(r.Date),
		FieldStartTime:   structpb.NewStringValue(r.StartTime),
		FieldEndTime:     structpb.NewStringValue(r.EndTime),
	})
}

func ParseCheckReservationRequest(s *structpb.Struct) CheckReservationRequest {
	return CheckReservationRequest{
		UserID:      stringField(s, FieldUserID),
		SpecialtyID: stringField(s, FieldSpecialtyID),
		Date:        stringField(s, FieldDate),
		StartTime:   stringField(s, FieldStartTime),
		EndTime:     stringField(s, FieldEndTime),
	}
}

// Slot: свободный интервал в ответах.
type Slot struct {
	StartTime string
	EndTime   string
}

type Day struct {
	Date      string
	DayOfWeek int
	Slots     []Slot
}

func SlotsResponse(slots []Slot) *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		FieldSlots: structpb.NewListValue(slotList(slots)),
	})
}

func ParseSlotsResponse(s *structpb.Struct) []Slot {
	return parseSlots(s.GetFields()[FieldSlots])
}

func DaysResponse(days []Day) *structpb.Struct {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(days))}
	for _, d := range days {
		list.Values = append(list.Values, structpb.NewStructValue(newStruct(map[string]*structpb.Value{
			FieldDate:      structpb.NewStringValue(d.Date),
			FieldDayOfWeek: structpb.NewNumberValue(float64(d.DayOfWeek)),
			FieldSlots:     structpb.NewListValue(slotList(d.Slots)),
		})))
	}
	return newStruct(map[string]*structpb.Value{FieldDays: structpb.NewListValue(list)})
}

func ParseDaysResponse(s *structpb.Struct) []Day {
	var out []Day
	for _, v := range s.GetFields()[FieldDays].GetListValue().GetValues() {
		d := v.GetStructValue()
		out = append(out, Day{
			Date:      stringField(d, FieldDate),
			DayOfWeek: int(d.GetFields()[FieldDayOfWeek].GetNumberValue()),
			Slots:     parseSlots(d.GetFields()[FieldSlots]),
		})
	}
	return out
}

// CheckResult: allowed и машинное имя причины отказа.
type CheckResult struct {
	Allowed bool
	Reason  string
}

func (r CheckResult) Proto() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		FieldAllowed: structpb.NewBoolValue(r.Allowed),
		FieldReason:  structpb.NewStringValue(r.Reason),
	})
}

func ParseCheckResult(s *structpb.Struct) CheckResult {
	return CheckResult{
		Allowed: s.GetFields()[FieldAllowed].GetBoolValue(),
		Reason:  stringField(s, FieldReason),
	}
}

func slotList(slots []Slot) *structpb.ListValue {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(slots))}
	for _, sl := range slots {
		list.Values = append(list.Values, structpb.NewStructValue(newStruct(map[string]*structpb.Value{
			FieldStartTime: structpb.NewStringValue(sl.StartTime),
			FieldEndTime:   structpb.NewStringValue(sl.EndTime),
		})))
	}
	return list
}

func parseSlots(v *structpb.Value) []Slot {
	var out []Slot
	for _, item := range v.GetListValue().GetValues() {
		st := item.GetStructValue()
		out = append(out, Slot{
			StartTime: stringField(st, FieldStartTime),
			EndTime:   stringField(st, FieldEndTime),
		})
	}
	return out
}

func newStruct(fields map[string]*structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: fields}
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}
