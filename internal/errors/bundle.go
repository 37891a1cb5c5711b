package errors

import "fmt"

// bundleAr is the default (Arabic) message bundle, keyed by Kind. Every
// template is a fmt-style format string; Localize applies it the way the
// teacher's SentraError.Error formats its own fixed strings, except here
// the template itself is swappable (naftah.locale, spec §6).
var bundleAr = map[Kind]string{
	Syntax:                    "خطأ نحوي: %s",
	Lexical:                   "خطأ في التحليل اللفظي: %s",
	VariableNotFound:          "المتغيّر غير موجود: %s",
	ConstantReassignment:       "لا يمكن إعادة إسناد ثابت: %s",
	TypeMismatch:              "عدم تطابق في النوع: %s",
	Assignability:             "القيمة لا تقبل الإسناد إلى النوع: %s",
	NullInput:                 "مدخل فارغ غير مسموح: %s",
	EmptyArgument:             "وسيط مفقود",
	DivisionByZero:            "القسمة على صفر",
	Overflow:                  "فاض المقدار العددي: %s",
	UnsupportedBitwiseDecimal: "لا تدعم العمليات الثنائية القيم العشرية",
	InvalidNumber:             "رقم غير صالح: %s",
	InvalidRadix:              "أساس عددي غير صالح: %s",
	IndexOutOfBounds:          "الفهرس خارج الحدود: %s",
	KeyNotFound:               "المفتاح غير موجود: %s",
	NegativeNumber:            "لا يُقبل عدد سالب هنا: %s",
	InvocableNotFound:         "لا يوجد استدعاء مطابق: %s",
	AmbiguousOverload:         "التحميل الزائد غامض بين أكثر من توقيع: %s",
	ArityMismatch:             "عدد الوسائط غير مطابق: %s",
	InvalidLoopLabel:          "وسم الحلقة غير صالح: %s",
	OrphanSignal:              "إشارة تحكّم بلا حلقة أو دالة محتضنة",
	AlreadySpawned:            "المهمة بدأت تنفيذها من قبل",
	Cancelled:                 "أُلغيت المهمة",
	Timeout:                   "انتهت المهلة",
	ChannelClosed:             "القناة مغلقة",
	NaNValue:                  "قيمة ليست رقماً (NaN)",
	InfiniteDecimal:           "نتيجة غير منتهية (لا نهائي)",
	HostInvocation:            "فشل استدعاء كائن مضيف: %s",
	ShapeMismatch:             "عدم تطابق في شكل المجموعتين: %s",
	Internal:                  "خطأ داخلي: %s",
}

// activeBundle is swapped by naftah.locale (spec §6). Only the Arabic
// default ships with the runtime; other locales are a caller concern
// reached through SetBundle, mirroring how the spec scopes translit/zone
// tables out as pure external lookup tables (§1).
var activeBundle = bundleAr

// SetBundle overrides the active message bundle, keyed by Kind.
func SetBundle(bundle map[Kind]string) {
	if bundle == nil {
		activeBundle = bundleAr
		return
	}
	activeBundle = bundle
}

// Localize formats the template registered for kind with args. A kind
// missing from the bundle (should not happen for any of the constants
// above) falls back to a raw %v rendering of args instead of panicking.
func Localize(kind Kind, args ...interface{}) string {
	tmpl, ok := activeBundle[kind]
	if !ok {
		return fmt.Sprint(args...)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
