package catalog

import (
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// seedPointsOfInterest is the development dataset used until the external
// tour data feed is wired in. Volatile rows (restaurants, festivals, markets
// with changing schedules) are the ones the pipeline re-verifies live.
func seedPointsOfInterest(refreshed time.Time) []types.PointOfInterest {
	return []types.PointOfInterest{
		// Seoul
		{
			ContentID: "SEOUL001", Name: "Namsan Park", Region: "Seoul",
			Address: "105 Namsangongwon-gil, Yongsan-gu, Seoul",
			Latitude: 37.5509, Longitude: 126.9903,
			ContentType: "attraction", CategoryTag: "nature_park",
			ImageURL: strPtr("https://example.com/namsan.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 00:00-24:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "SEOUL003", Name: "National Museum of Korea", Region: "Seoul",
			Address: "137 Seobinggo-ro, Yongsan-gu, Seoul",
			Latitude: 37.5234, Longitude: 126.9792,
			ContentType: "attraction", CategoryTag: "culture_museum",
			ImageURL: strPtr("https://example.com/nmk.jpg"), Volatile: false,
			OperatingHours: strPtr("Tue-Sun 10:00-18:00 (closed Mondays)"), LastRefreshed: refreshed,
		},
		{
			ContentID: "SEOUL005", Name: "Myeongdong Kyoja Main Branch", Region: "Seoul",
			Address: "29 Myeongdong 10-gil, Jung-gu, Seoul",
			Latitude: 37.5624, Longitude: 126.9870,
			ContentType: "restaurant", CategoryTag: "food_korean",
			ImageURL: strPtr("https://example.com/myeongdongkyoja.jpg"), Volatile: true,
			OperatingHours: strPtr("daily 10:30-21:30"), LastRefreshed: refreshed,
		},
		{
			ContentID: "SEOUL006", Name: "Seoul Lantern Festival 2025", Region: "Seoul",
			Address: "1 Cheonggyecheon-ro, Jongno-gu, Seoul",
			Latitude: 37.5696, Longitude: 126.9770,
			ContentType: "festival", CategoryTag: "festival_lights",
			ImageURL: strPtr("https://example.com/seoullantern.jpg"), Volatile: true,
			StartDate: datePtr(2025, 11, 1), EndDate: datePtr(2025, 11, 30),
			LastRefreshed: refreshed,
		},
		{
			ContentID: "SEOUL013", Name: "Gwangjang Market", Region: "Seoul",
			Address: "88 Changgyeonggung-ro, Jongno-gu, Seoul",
			Latitude: 37.5700, Longitude: 126.9900,
			ContentType: "attraction", CategoryTag: "food_market",
			ImageURL: strPtr("https://example.com/gwangjang.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 09:00-22:00"), LastRefreshed: refreshed,
		},

		// Busan
		{
			ContentID: "BUSAN001", Name: "Haeundae Beach", Region: "Busan",
			Address: "U-dong, Haeundae-gu, Busan",
			Latitude: 35.1587, Longitude: 129.1609,
			ContentType: "attraction", CategoryTag: "nature_beach",
			ImageURL: strPtr("https://example.com/haeundae.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 00:00-24:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "BUSAN003", Name: "Gamcheon Culture Village", Region: "Busan",
			Address: "Gamcheon-dong, Saha-gu, Busan",
			Latitude: 35.0994, Longitude: 129.0290,
			ContentType: "attraction", CategoryTag: "culture_village",
			ImageURL: strPtr("https://example.com/gamcheon.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 09:00-18:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "BUSAN004", Name: "Jagalchi Market", Region: "Busan",
			Address: "52 Jagalchihaean-ro, Jung-gu, Busan",
			Latitude: 35.0940, Longitude: 129.0270,
			ContentType: "restaurant", CategoryTag: "food_seafood",
			ImageURL: strPtr("https://example.com/jagalchi.jpg"), Volatile: true,
			OperatingHours: strPtr("daily 08:00-22:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "BUSAN005", Name: "Busan Fireworks Festival 2025", Region: "Busan",
			Address: "219 Gwanganhaebyeon-ro, Suyeong-gu, Busan",
			Latitude: 35.1530, Longitude: 129.1180,
			ContentType: "festival", CategoryTag: "festival_fireworks",
			ImageURL: strPtr("https://example.com/busanfireworks.jpg"), Volatile: true,
			StartDate: datePtr(2025, 10, 24), EndDate: datePtr(2025, 10, 26),
			LastRefreshed: refreshed,
		},

		// Jeju
		{
			ContentID: "JEJU001", Name: "Hallasan National Park", Region: "Jeju",
			Address: "2070-61 1100-ro, Jeju-si, Jeju",
			Latitude: 33.3625, Longitude: 126.5292,
			ContentType: "attraction", CategoryTag: "nature_mountain",
			ImageURL: strPtr("https://example.com/hallasan.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 00:00-24:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "JEJU004", Name: "Dongmun Night Market", Region: "Jeju",
			Address: "20 Gwandeok-ro 14-gil, Jeju-si, Jeju",
			Latitude: 33.5141, Longitude: 126.5292,
			ContentType: "restaurant", CategoryTag: "food_market",
			ImageURL: strPtr("https://example.com/dongmun.jpg"), Volatile: true,
			OperatingHours: strPtr("daily 18:00-24:00"), LastRefreshed: refreshed,
		},

		// Jeonju
		{
			ContentID: "JEONJU001", Name: "Jeonju Hanok Village", Region: "Jeonju",
			Address: "99 Girin-daero, Wansan-gu, Jeonju",
			Latitude: 35.8143, Longitude: 127.1533,
			ContentType: "attraction", CategoryTag: "culture_village",
			ImageURL: strPtr("https://example.com/jeonjuhanok.jpg"), Volatile: false,
			OperatingHours: strPtr("daily 00:00-24:00"), LastRefreshed: refreshed,
		},
		{
			ContentID: "JEONJU002", Name: "Jeonju Bibimbap Festival 2025", Region: "Jeonju",
			Address: "20 Hyeonmu 1-gil, Wansan-gu, Jeonju",
			Latitude: 35.8150, Longitude: 127.1490,
			ContentType: "festival", CategoryTag: "festival_food",
			ImageURL: strPtr("https://example.com/jeonjubibimbap.jpg"), Volatile: true,
			StartDate: datePtr(2025, 10, 9), EndDate: datePtr(2025, 10, 12),
			LastRefreshed: refreshed,
		},
	}
}

func strPtr(s string) *string { return &s }

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
