package validators

import "go.mongodb.org/mongo-driver/bson"

var DiningPlaceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"address",
			"phone_no",
			"operational_hours",
			"booked_slots",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"phone_no": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"website": bson.M{
				"bsonType": "string",
			},

			"operational_hours": bson.M{
				"bsonType": "object",
				"required": []string{"open_time", "close_time"},
				"properties": bson.M{
					"open_time": bson.M{
						"bsonType": "string",
						"pattern":  "^\\d{2}:\\d{2}:\\d{2}$",
					},
					"close_time": bson.M{
						"bsonType": "string",
						"pattern":  "^\\d{2}:\\d{2}:\\d{2}$",
					},
				},
			},

			"booked_slots": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"start_time", "end_time"},
					"properties": bson.M{
						"start_time": bson.M{
							"bsonType": "date",
						},
						"end_time": bson.M{
							"bsonType": "date",
						},
						"booked_at": bson.M{
							"bsonType": "date",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
